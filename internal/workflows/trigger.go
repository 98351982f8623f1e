package workflows

import (
	"github.com/samirrijal/agroshare/internal/core/ports"
)

// RetryRequest decides whether a published route event deserves a
// background retry. Only transport failures do; every other outcome is
// final, and so is anything a retry published itself. The workflow id is derived from the event id so redelivered
// events start the workflow at most once.
func RetryRequest(event *ports.RouteEvent) (id string, input RouteInput, ok bool) {
	if event == nil || event.Retry || event.Outcome != "failed" || event.Reason != "transport_error" {
		return "", RouteInput{}, false
	}
	return "route-" + event.EventID, RouteInput{
		ListingID:   event.ListingID,
		Origin:      event.Origin,
		Destination: event.Destination,
	}, true
}
