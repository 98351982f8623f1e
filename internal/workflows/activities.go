package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/usecases"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
)

// RouteActivities holds the activity implementations for the route
// resolution workflow.
type RouteActivities struct {
	Routes *usecases.RouteService
}

// ResolveRoute asks the provider for a route once. Failures are returned as
// application errors typed by reason code, so the workflow retry policy can
// tell transient transport failures from permanent ones.
func (a *RouteActivities) ResolveRoute(ctx context.Context, input RouteInput) (*domain.Route, error) {
	route, err := a.Routes.ResolveForListing(ctx, input.ListingID, input.Origin, input.Destination)
	if err != nil {
		reason := domain.ReasonCode(err)
		logging.FromContext(ctx).Info("route activity failed", "listing_id", input.ListingID, "reason", reason)
		if errors.Is(err, domain.ErrTransport) {
			return nil, temporal.NewApplicationErrorWithCause(err.Error(), reason, err)
		}
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), reason, err)
	}
	return route, nil
}
