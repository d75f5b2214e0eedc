package probe

import (
	"context"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
)

// MultiChecker dispatches each service to the checker for its type.
// Types without a real checker fall through to the placeholder.
type MultiChecker struct {
	ByType   map[domain.ServiceType]Checker
	Fallback Checker
}

func NewMultiChecker(httpTimeout time.Duration) *MultiChecker {
	return &MultiChecker{
		ByType: map[domain.ServiceType]Checker{
			domain.TypeHTTP: NewHTTPChecker(httpTimeout),
		},
		Fallback: PlaceholderChecker{},
	}
}

func (m *MultiChecker) Check(ctx context.Context, svc domain.Service) Outcome {
	if c, ok := m.ByType[svc.Type]; ok {
		return c.Check(ctx, svc)
	}
	return m.Fallback.Check(ctx, svc)
}
