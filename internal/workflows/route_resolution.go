package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// RouteInput is the input for the route resolution workflow.
type RouteInput struct {
	ListingID   string
	Origin      domain.GeoPoint
	Destination domain.GeoPoint
}

// NonRetryableReasons are failures a retry cannot fix.
var NonRetryableReasons = []string{
	"missing_credential",
	"invalid_response",
	"no_route_found",
	"invalid_coordinate",
}

// RouteResolutionWorkflow resolves a route with bounded retries on
// transport failures. The resolver itself never retries; this workflow is
// the caller-side retry.
func RouteResolutionWorkflow(ctx workflow.Context, input RouteInput) (*domain.Route, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting route resolution workflow", "listingID", input.ListingID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: NonRetryableReasons,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var route domain.Route
	if err := workflow.ExecuteActivity(ctx, "ResolveRoute", input).Get(ctx, &route); err != nil {
		logger.Warn("route resolution failed", "listingID", input.ListingID, "error", err)
		return nil, err
	}

	logger.Info("Route resolved", "listingID", input.ListingID, "points", len(route.Path))
	return &route, nil
}
