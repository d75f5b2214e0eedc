package domain

// StatusSnapshot is the derived per-service view served to the dashboard.
// It is never persisted; aggregation is a pure read-side computation.
type StatusSnapshot struct {
	Status         Status   `json:"status"`
	UptimePct      *float64 `json:"uptime"`       // trailing 24h, nil when no records in window
	ResponseTimeMS *int64   `json:"responseTime"` // from the latest record
	LastCheck      *int64   `json:"lastCheck"`    // unix seconds of the latest record
	ErrorMessage   *string  `json:"errorMessage"`
}

// GroupStatus is the tri-state rollup for one service group.
type GroupStatus string

const (
	GroupOnline   GroupStatus = "online"   // every service in the group is online
	GroupOffline  GroupStatus = "offline"  // every service in the group is offline
	GroupDegraded GroupStatus = "degraded" // mixed or degraded
)

// Overall is the fleet-wide indicator derived from the share of online
// services. Thresholds are fixed policy.
type Overall struct {
	Label       string  `json:"label"`
	OnlineCount int     `json:"online"`
	TotalCount  int     `json:"total"`
	OnlinePct   float64 `json:"onlinePct"`
}
