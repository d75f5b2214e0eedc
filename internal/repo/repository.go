package repo

import (
	"context"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
)

// The engine consumes the store through these interfaces and never
// assumes a concrete backend.

// ServiceStore reads the externally-managed service registry.
type ServiceStore interface {
	List(ctx context.Context) ([]domain.Service, error)
}

// CheckStore persists and reads probe outcomes. Records are append-only;
// nothing here mutates or deletes.
type CheckStore interface {
	// Append writes one immutable record.
	Append(ctx context.Context, rec *domain.CheckRecord) error
	// Latest returns the newest record for a service, or nil, nil when the
	// service has never been checked.
	Latest(ctx context.Context, id domain.ServiceID) (*domain.CheckRecord, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, id domain.ServiceID, limit int) ([]domain.CheckRecord, error)
	// Window returns records with CheckedAt after since, oldest first.
	Window(ctx context.Context, id domain.ServiceID, since time.Time) ([]domain.CheckRecord, error)
}
