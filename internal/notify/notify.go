package notify

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/guthdx/statuswatch/internal/domain"
)

// Event is the alert payload for a down-transition.
type Event struct {
	Service   string           `json:"service"`
	ServiceID domain.ServiceID `json:"serviceId"`
	Status    domain.Status    `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Message   string           `json:"message"`
}

// Notifier delivers one alert event. Dispatch is at-most-once and
// best-effort: callers log a returned error and move on, they never retry.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
}

// Multi fans an event out to several sinks. Every sink is attempted;
// errors are combined rather than short-circuiting.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, ev Event) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, ev))
	}
	return errs
}
