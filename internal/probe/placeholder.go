package probe

import (
	"context"
	"fmt"

	"github.com/guthdx/statuswatch/internal/domain"
)

// PlaceholderChecker stands in for probe types that are registered but not
// implemented (ssh, ping). It always yields "checking", never a failure.
type PlaceholderChecker struct{}

func (PlaceholderChecker) Check(_ context.Context, svc domain.Service) Outcome {
	return Outcome{
		Status:       domain.StatusChecking,
		ErrorMessage: fmt.Sprintf("%s checks not yet implemented", svc.Type),
	}
}
