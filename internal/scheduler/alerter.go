package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/notify"
	"github.com/guthdx/statuswatch/internal/repo"
)

// Alerter detects fresh down-transitions and dispatches at most one alert
// per transition. Delivery is at-most-once and best-effort: a sink failure
// is logged and dropped, never retried within the cycle.
type Alerter struct {
	Logger   *zap.Logger
	Checks   repo.CheckStore
	Notifier notify.Notifier
}

func NewAlerter(logger *zap.Logger, checks repo.CheckStore, notifier notify.Notifier) *Alerter {
	return &Alerter{Logger: logger, Checks: checks, Notifier: notifier}
}

// Observe runs after rec has been written. It alerts only when the service
// flipped from online to offline on this very check: the second-most-recent
// record (of the last 3, newest first, including rec) must be online.
// Sustained outages and a service's first-ever check never alert.
func (a *Alerter) Observe(ctx context.Context, svc domain.Service, rec *domain.CheckRecord) {
	if rec.Status != domain.StatusOffline {
		return
	}

	recent, err := a.Checks.Recent(ctx, svc.ID, 3)
	if err != nil {
		a.Logger.Warn("transition_lookup_error",
			zap.String("service_id", string(svc.ID)), zap.Error(err))
		return
	}
	if len(recent) < 2 || recent[1].Status != domain.StatusOnline {
		return
	}

	ev := notify.Event{
		Service:   svc.Name,
		ServiceID: svc.ID,
		Status:    rec.Status,
		Timestamp: rec.CheckedAt,
		Message:   fmt.Sprintf("%s is now offline", svc.Name),
	}

	a.Logger.Warn("down_transition",
		zap.String("service_id", string(svc.ID)),
		zap.String("service", svc.Name),
	)

	if a.Notifier == nil {
		return
	}
	if err := a.Notifier.Send(ctx, ev); err != nil {
		a.Logger.Warn("alert_dispatch_failed",
			zap.String("service_id", string(svc.ID)), zap.Error(err))
	}
}
