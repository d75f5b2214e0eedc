// Package status is the read-side of the engine: it derives dashboard
// snapshots and bounded history from the append-only check records. It is
// side-effect-free; repeated calls between check cycles yield identical
// results.
package status

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/repo"
)

// DefaultWindow is the rolling window for uptime and history queries.
const DefaultWindow = 24 * time.Hour

type Aggregator struct {
	Services repo.ServiceStore
	Checks   repo.CheckStore
	Window   time.Duration

	// Now anchors the rolling window; tests pin it.
	Now func() time.Time
}

func NewAggregator(services repo.ServiceStore, checks repo.CheckStore, window time.Duration) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{Services: services, Checks: checks, Window: window, Now: time.Now}
}

// Overview is the full dashboard snapshot: per-service state plus group
// and fleet-wide rollups.
type Overview struct {
	Timestamp time.Time                                  `json:"timestamp"`
	Services  map[domain.ServiceID]domain.StatusSnapshot `json:"services"`
	Groups    map[string]domain.GroupStatus              `json:"groups"`
	Overall   domain.Overall                             `json:"overall"`
}

// Snapshot computes the current view for every registered service
// independently: latest status (unknown when never checked), rolling-window
// uptime, and the most recent latency/error/timestamp.
func (a *Aggregator) Snapshot(ctx context.Context) (*Overview, error) {
	services, err := a.Services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	now := a.Now()
	since := now.Add(-a.Window)

	out := &Overview{
		Timestamp: now.UTC(),
		Services:  make(map[domain.ServiceID]domain.StatusSnapshot, len(services)),
		Groups:    make(map[string]domain.GroupStatus),
	}
	byGroup := make(map[string][]domain.Status)

	for _, svc := range services {
		snap, err := a.serviceSnapshot(ctx, svc.ID, since)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", svc.ID, err)
		}
		out.Services[svc.ID] = snap
		byGroup[svc.Group] = append(byGroup[svc.Group], snap.Status)
	}

	for group, statuses := range byGroup {
		out.Groups[group] = rollupGroup(statuses)
	}
	out.Overall = rollupOverall(out.Services)
	return out, nil
}

func (a *Aggregator) serviceSnapshot(ctx context.Context, id domain.ServiceID, since time.Time) (domain.StatusSnapshot, error) {
	snap := domain.StatusSnapshot{Status: domain.StatusUnknown}

	latest, err := a.Checks.Latest(ctx, id)
	if err != nil {
		return snap, err
	}
	if latest != nil {
		snap.Status = latest.Status
		snap.ResponseTimeMS = latest.ResponseTimeMS
		ts := latest.CheckedAt.Unix()
		snap.LastCheck = &ts
		if latest.ErrorMessage != "" {
			msg := latest.ErrorMessage
			snap.ErrorMessage = &msg
		}
	}

	window, err := a.Checks.Window(ctx, id, since)
	if err != nil {
		return snap, err
	}
	if len(window) > 0 {
		online := 0
		for _, r := range window {
			if r.Status == domain.StatusOnline {
				online++
			}
		}
		// degraded/checking count toward the denominator only
		pct := math.Round(float64(online)/float64(len(window))*1000) / 10
		snap.UptimePct = &pct
	}
	return snap, nil
}

// rollupGroup derives the tri-state indicator for one group.
func rollupGroup(statuses []domain.Status) domain.GroupStatus {
	allOnline, allOffline := true, true
	for _, s := range statuses {
		if s != domain.StatusOnline {
			allOnline = false
		}
		if s != domain.StatusOffline {
			allOffline = false
		}
	}
	switch {
	case allOnline:
		return domain.GroupOnline
	case allOffline:
		return domain.GroupOffline
	default:
		return domain.GroupDegraded
	}
}

// rollupOverall maps the share of online services to the fleet indicator.
// Thresholds are fixed policy, not configurable.
func rollupOverall(snaps map[domain.ServiceID]domain.StatusSnapshot) domain.Overall {
	total := len(snaps)
	online := 0
	for _, s := range snaps {
		if s.Status == domain.StatusOnline {
			online++
		}
	}
	pct := 100.0
	if total > 0 {
		pct = float64(online) / float64(total) * 100
	}

	var label string
	switch {
	case pct == 100:
		label = "All Systems Operational"
	case pct >= 75:
		label = "Partial Outage"
	case pct >= 25:
		label = "Major Outage"
	default:
		label = "Critical Outage"
	}
	return domain.Overall{
		Label:       label,
		OnlineCount: online,
		TotalCount:  total,
		OnlinePct:   pct,
	}
}
