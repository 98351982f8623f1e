package openroute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"

	maxBodyBytes = 8 << 20
)

// Client implements ports.RouteProvider against the OpenRouteService
// directions API.
type Client struct {
	apiKey  string
	baseURL string
	profile string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, self-hosted ORS).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// NewClient creates a directions client. An empty apiKey is allowed; every
// call then fails with domain.ErrMissingCredential.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		profile: DefaultProfile,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// directionsResponse is the subset of the GeoJSON directions response we read.
type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]*float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary *struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions resolves a driving route from origin to destination.
func (c *Client) Directions(ctx context.Context, origin, destination domain.GeoPoint) (*domain.Route, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	ctx, span := otel.Tracer("agroshare/openroute").Start(ctx, "openroute.directions")
	defer span.End()
	span.SetAttributes(attribute.String("ors.profile", c.profile))

	route, status, err := c.do(ctx, origin, destination)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.ReasonCode(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("ors.points", len(route.Path)))
	return route, nil
}

func (c *Client) do(ctx context.Context, origin, destination domain.GeoPoint) (*domain.Route, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(origin, destination), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build directions request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logging.FromContext(ctx).Warn("openroute non-success response",
			"status", resp.StatusCode, "body", string(body))
		return nil, resp.StatusCode, &domain.TransportError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &domain.TransportError{Status: resp.StatusCode, Err: err}
	}

	route, err := decodeRoute(data)
	return route, resp.StatusCode, err
}

// requestURL builds the GET URL. Coordinates leave the process
// longitude-first, as the provider expects.
func (c *Client) requestURL(origin, destination domain.GeoPoint) string {
	return fmt.Sprintf("%s/v2/directions/%s?api_key=%s&start=%s&end=%s",
		c.baseURL, c.profile, url.QueryEscape(c.apiKey),
		formatLonLat(origin.LonLat()), formatLonLat(destination.LonLat()))
}

func formatLonLat(ll domain.LonLat) string {
	return strconv.FormatFloat(ll[0], 'f', -1, 64) + "," + strconv.FormatFloat(ll[1], 'f', -1, 64)
}

func decodeRoute(data []byte) (*domain.Route, error) {
	var dr directionsResponse
	if err := json.Unmarshal(data, &dr); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if len(dr.Features) == 0 {
		return nil, domain.ErrNoRouteFound
	}

	feature := dr.Features[0]
	path := make([]domain.GeoPoint, 0, len(feature.Geometry.Coordinates))
	for i, c := range feature.Geometry.Coordinates {
		if len(c) < 2 || !finite(c[0]) || !finite(c[1]) {
			return nil, fmt.Errorf("%w: coordinate %d is not a finite pair", domain.ErrInvalidResponse, i)
		}
		path = append(path, domain.FromLonLat(domain.LonLat{*c[0], *c[1]}))
	}

	route := &domain.Route{Path: path}
	if s := feature.Properties.Summary; s != nil {
		if s.Distance != nil {
			d := *s.Distance
			route.DistanceMeters = &d
		}
		if s.Duration != nil {
			d := *s.Duration
			route.DurationSeconds = &d
		}
	}
	return route, nil
}

func finite(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}
