package status

import (
	"context"
	"fmt"

	"github.com/guthdx/statuswatch/internal/domain"
)

// HistoryEntry is one raw record shaped for charting.
type HistoryEntry struct {
	Status       domain.Status `json:"status"`
	ResponseTime *int64        `json:"responseTime"`
	Timestamp    int64         `json:"timestamp"` // unix seconds
}

// History returns the rolling-window records for one service, oldest
// first. An unknown or never-checked id yields an empty sequence, not an
// error.
func (a *Aggregator) History(ctx context.Context, id domain.ServiceID) ([]HistoryEntry, error) {
	since := a.Now().Add(-a.Window)
	records, err := a.Checks.Window(ctx, id, since)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", id, err)
	}
	out := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		out = append(out, HistoryEntry{
			Status:       r.Status,
			ResponseTime: r.ResponseTimeMS,
			Timestamp:    r.CheckedAt.Unix(),
		})
	}
	return out, nil
}
