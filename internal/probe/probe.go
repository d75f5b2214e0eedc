package probe

import (
	"context"

	"github.com/guthdx/statuswatch/internal/domain"
)

// Outcome is the classified result of a single probe.
//
// ResponseTimeMS is set only when a response was actually received; a
// timeout or transport failure leaves it nil. ErrorMessage is diagnostic
// only and must be non-empty whenever Status is degraded.
type Outcome struct {
	Status         domain.Status
	ResponseTimeMS *int64
	ErrorMessage   string
}

// Checker performs a single bounded-time reachability check for one
// service. Implementations never touch the store.
type Checker interface {
	Check(ctx context.Context, svc domain.Service) Outcome
}
