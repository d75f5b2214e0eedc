package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/probe"
	"github.com/guthdx/statuswatch/internal/repo"
)

// Recorder persists one classified probe result as an immutable record and
// then hands the service to the transition detector. A persistence failure
// is logged and isolated to that service; the cycle carries on.
type Recorder struct {
	Logger  *zap.Logger
	Checks  repo.CheckStore
	Alerter *Alerter // nil disables transition detection

	// Now is the record timestamp source; tests pin it.
	Now func() time.Time
}

func NewRecorder(logger *zap.Logger, checks repo.CheckStore, alerter *Alerter) *Recorder {
	return &Recorder{
		Logger:  logger,
		Checks:  checks,
		Alerter: alerter,
		Now:     time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, svc domain.Service, out probe.Outcome) (*domain.CheckRecord, error) {
	if !out.Status.Persistable() {
		return nil, fmt.Errorf("refusing to record status %q for %s", out.Status, svc.ID)
	}
	rec := &domain.CheckRecord{
		ServiceID:      svc.ID,
		Status:         out.Status,
		ResponseTimeMS: out.ResponseTimeMS,
		ErrorMessage:   out.ErrorMessage,
		CheckedAt:      r.Now().UTC(),
	}
	if err := r.Checks.Append(ctx, rec); err != nil {
		r.Logger.Warn("check_append_error",
			zap.String("service_id", string(svc.ID)),
			zap.String("status", string(rec.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	r.Logger.Debug("check_recorded",
		zap.String("service_id", string(svc.ID)),
		zap.String("status", string(rec.Status)),
		zap.String("error_message", rec.ErrorMessage),
	)

	if r.Alerter != nil {
		r.Alerter.Observe(ctx, svc, rec)
	}
	return rec, nil
}
