package http

import (
	"errors"
	"math/rand"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/agroshare/internal/adapters/geolocation"
	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/usecases"
)

const userIDHeader = "X-User-ID"

// queryPoint parses a required coordinate pair from the query string.
func queryPoint(c *fiber.Ctx, latKey, lonKey string) (domain.GeoPoint, error) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New(latKey + " must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query(lonKey), 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New(lonKey + " must be a number")
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, domain.ErrInvalidCoordinate
	}
	return p, nil
}

// RouteHandler resolves a driving route between two points.
func RouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := queryPoint(c, "from_lat", "from_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		to, err := queryPoint(c, "to_lat", "to_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		route, err := deps.Routes.Resolve(c.UserContext(), from, to)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(route)
	}
}

// NearbyListingsHandler returns listings around a point, closest first.
func NearbyListingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		at, err := queryPoint(c, "lat", "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := c.QueryFloat("radius", 25000)
		if radius <= 0 || radius > 100000 {
			return errBadRequest(c, "radius must be between 1 and 100000 meters")
		}
		limit := c.QueryInt("limit", 20)

		listings, err := deps.Listings.Nearby(c.UserContext(), at, radius, limit)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(listings)
	}
}

// GetListingHandler returns a single listing.
func GetListingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := deps.Listings.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(l)
	}
}

// ListingProximityHandler computes the proximity view for a listing from
// the position sample (lat/lon) or the geolocation error (geo_error) the
// browser reported. Geolocation and routing failures degrade the view and
// still answer 200.
func ListingProximityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		source, err := geolocation.FromParams(c.Query("lat"), c.Query("lon"), c.Query("geo_error"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		view, err := deps.Proximity.Compute(c.UserContext(), c.Params("id"), source)
		if err != nil {
			return errDomain(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.JSON(view)
	}
}

// ReviewFeed is the reviews endpoint payload.
type ReviewFeed struct {
	ListingID     string                `json:"listing_id"`
	AverageRating float64               `json:"average_rating"`
	Reviews       []domain.ReviewRecord `json:"reviews"`
}

// ListingReviewsHandler synthesizes a review feed around the listing's
// rating. count defaults to a random length; seed makes the feed
// reproducible.
func ListingReviewsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := deps.Listings.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errDomain(c, err)
		}

		count := c.QueryInt("count", 0)
		var reviews []domain.ReviewRecord
		if s := c.Query("seed"); s != "" {
			seed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return errBadRequest(c, "seed must be an integer")
			}
			rng := rand.New(rand.NewSource(seed))
			if count == 0 {
				count = usecases.RandomReviewCount(rng)
			}
			reviews = deps.Reviews.SynthesizeWith(rng, l.Rating, count)
		} else {
			if count == 0 {
				count = deps.Reviews.RandomCount()
			}
			reviews = deps.Reviews.Synthesize(l.Rating, count)
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(ReviewFeed{ListingID: l.ID, AverageRating: l.Rating, Reviews: reviews})
	}
}

// OwnerProfileHandler returns an owner with their listings.
func OwnerProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Owners.Profile(c.UserContext(), c.Params("id"))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(p)
	}
}

// OwnerTripsHandler lists the caller's rental requests for the owner's
// listings. The caller is identified by the X-User-ID header, or the
// requester_id query parameter. Anonymous callers get an empty list.
func OwnerTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester := c.Get(userIDHeader)
		if requester == "" {
			requester = c.Query("requester_id")
		}

		trips, err := deps.Trips.TripsWithOwner(c.UserContext(), requester, c.Params("id"))
		if err != nil {
			return errInternal(c, err)
		}

		offset, limit := parsePagination(c, 50, 200)
		start, end := window(offset, limit, len(trips))
		pg := Pagination{Offset: offset, Limit: limit, Total: len(trips)}
		SetLinkHeaders(c, pg)
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.JSON(PaginatedResponse{Data: trips[start:end], Pagination: pg})
	}
}

// MapsConfigHandler hands the map widget key to the browser.
func MapsConfigHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"api_key":        deps.MapsAPIKey,
			"configured":     deps.MapsAPIKey != "",
			"default_center": domain.DefaultMapCenter,
			"padding":        domain.DefaultPadding,
		})
	}
}
