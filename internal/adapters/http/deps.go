package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/agroshare/internal/adapters/postgres"
	"github.com/samirrijal/agroshare/internal/adapters/valkey"
	"github.com/samirrijal/agroshare/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Listings  *usecases.ListingService
	Owners    *usecases.OwnerService
	Trips     *usecases.TripService
	Routes    *usecases.RouteService
	Proximity *usecases.ProximityService
	Reviews   *usecases.ReviewSynthesizer
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache

	// MapsAPIKey is handed to the browser map widget.
	MapsAPIKey string
	// RoutingConfigured reports whether a routing provider key is set.
	RoutingConfigured bool
}
