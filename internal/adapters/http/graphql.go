package http

import (
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/agroshare/internal/adapters/geolocation"
	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/usecases"
)

func optionalFloat(args map[string]interface{}, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	paddingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Padding",
		Fields: graphql.Fields{
			"top":    &graphql.Field{Type: graphql.Int},
			"right":  &graphql.Field{Type: graphql.Int},
			"bottom": &graphql.Field{Type: graphql.Int},
			"left":   &graphql.Field{Type: graphql.Int},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"bounds":  &graphql.Field{Type: boundsType},
			"padding": &graphql.Field{Type: paddingType},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"path":             &graphql.Field{Type: graphql.NewList(geoPointType)},
			"distance_meters":  &graphql.Field{Type: graphql.Float},
			"duration_seconds": &graphql.Field{Type: graphql.Float},
		},
	})

	listingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Listing",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"owner_id":       &graphql.Field{Type: graphql.String},
			"name":           &graphql.Field{Type: graphql.String},
			"category":       &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"price_per_hour": &graphql.Field{Type: graphql.Float},
			"price_unit":     &graphql.Field{Type: graphql.String},
			"image_url":      &graphql.Field{Type: graphql.String},
			"rating":         &graphql.Field{Type: graphql.Float},
			"location":       &graphql.Field{Type: geoPointType},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyListing",
		Fields: graphql.Fields{
			"listing": &graphql.Field{
				Type: listingType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(domain.NearbyListing); ok {
						return n.Listing, nil
					}
					return nil, nil
				},
			},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"distance_label":  &graphql.Field{Type: graphql.String},
		},
	})

	proximityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Proximity",
		Fields: graphql.Fields{
			"listing_id":           &graphql.Field{Type: graphql.String},
			"status":               &graphql.Field{Type: graphql.String},
			"reason":               &graphql.Field{Type: graphql.String},
			"distance_label":       &graphql.Field{Type: graphql.String},
			"origin":               &graphql.Field{Type: geoPointType},
			"destination":          &graphql.Field{Type: geoPointType},
			"center":               &graphql.Field{Type: geoPointType},
			"route":                &graphql.Field{Type: routeType},
			"viewport":             &graphql.Field{Type: viewportType},
			"straight_line_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	reviewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.Int},
			"reviewer_name":       &graphql.Field{Type: graphql.String},
			"reviewer_avatar_ref": &graphql.Field{Type: graphql.String},
			"rating":              &graphql.Field{Type: graphql.Int},
			"relative_date":       &graphql.Field{Type: graphql.String},
			"comment":             &graphql.Field{Type: graphql.String},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"listing_id":        &graphql.Field{Type: graphql.String},
			"listing_name":      &graphql.Field{Type: graphql.String},
			"status":            &graphql.Field{Type: graphql.String},
			"total_price":       &graphql.Field{Type: graphql.Float},
			"total_price_label": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listing": &graphql.Field{
				Type:        listingType,
				Description: "Get a listing by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Listings.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"nearbyListings": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Listings near a location, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 25000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					at := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Listings.Nearby(p.Context, at, p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
			"proximity": &graphql.Field{
				Type:        proximityType,
				Description: "Driving distance and map framing from the renter to a listing",
				Args: graphql.FieldConfigArgument{
					"listing_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":        &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":        &graphql.ArgumentConfig{Type: graphql.Float},
					"geo_error":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					source, err := geolocation.FromSample(optionalFloat(p.Args, "lat"), optionalFloat(p.Args, "lon"), p.Args["geo_error"].(string))
					if err != nil {
						return nil, err
					}
					return deps.Proximity.Compute(p.Context, p.Args["listing_id"].(string), source)
				},
			},
			"reviews": &graphql.Field{
				Type:        graphql.NewList(reviewType),
				Description: "Synthesized review feed for a listing",
				Args: graphql.FieldConfigArgument{
					"listing_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"count":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"seed":       &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := deps.Listings.GetByID(p.Context, p.Args["listing_id"].(string))
					if err != nil {
						return nil, err
					}
					count := p.Args["count"].(int)
					if seed, ok := p.Args["seed"].(int); ok {
						rng := rand.New(rand.NewSource(int64(seed)))
						if count == 0 {
							count = usecases.RandomReviewCount(rng)
						}
						return deps.Reviews.SynthesizeWith(rng, l.Rating, count), nil
					}
					if count == 0 {
						count = deps.Reviews.RandomCount()
					}
					return deps.Reviews.Synthesize(l.Rating, count), nil
				},
			},
			"ownerTrips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "The requester's rental requests for an owner's listings",
				Args: graphql.FieldConfigArgument{
					"owner_id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"requester_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trips.TripsWithOwner(p.Context, p.Args["requester_id"].(string), p.Args["owner_id"].(string))
				},
			},
			"route": &graphql.Field{
				Type:        routeType,
				Description: "Driving route between two points",
				Args: graphql.FieldConfigArgument{
					"from_lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"from_lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"to_lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"to_lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from := domain.GeoPoint{Lat: p.Args["from_lat"].(float64), Lon: p.Args["from_lon"].(float64)}
					to := domain.GeoPoint{Lat: p.Args["to_lat"].(float64), Lon: p.Args["to_lon"].(float64)}
					return deps.Routes.Resolve(p.Context, from, to)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
