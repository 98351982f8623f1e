package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/agroshare/internal/adapters/geolocation"
	natsadapter "github.com/samirrijal/agroshare/internal/adapters/nats"
	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/usecases"
	"github.com/samirrijal/agroshare/internal/pkg/events"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// wsRequest is sent from the client.
//
//	{"action":"view","listing_id":"l-1","lat":20.05,"lon":73.8}
//	{"action":"view","listing_id":"l-1","geo_error":"permission_denied"}
//	{"action":"watch","listing_id":"l-1"}
type wsRequest struct {
	Action    string   `json:"action"` // "view" | "watch" | "unwatch"
	ListingID string   `json:"listing_id"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	GeoError  string   `json:"geo_error,omitempty"`
}

// wsViewResult carries the token of the request it answers. Only the
// newest request's result is ever sent.
type wsViewResult struct {
	Token uint64                `json:"token"`
	View  *domain.ProximityView `json:"view,omitempty"`
	Error string                `json:"error,omitempty"`
}

// WebSocketHandler serves live proximity sessions. Each "view" request
// recomputes the listing's proximity view; a result that arrives after a
// newer request was issued is dropped. "watch" relays route events for a
// listing from NATS.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// mu guards every write to c and the closed flag. Once closed is set
		// nothing may touch c: the handler's *websocket.Conn is pooled and
		// handed to the next client after we return.
		var (
			mu     sync.Mutex
			closed bool
			views  sync.WaitGroup
		)
		writeLocked := func(v interface{}) error {
			if closed {
				return websocket.ErrCloseSent
			}
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			mu.Lock()
			defer mu.Unlock()
			return writeLocked(v)
		}

		var tracker usecases.RouteTracker[*domain.ProximityView]
		subs := make(map[string]*nats.Subscription) // listing id -> subscription

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					var err error
					if !closed {
						err = c.WriteMessage(websocket.PingMessage, nil)
					}
					mu.Unlock()
					if err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if req.ListingID == "" {
				_ = writeJSON(map[string]string{"error": "listing_id is required"})
				continue
			}

			switch req.Action {
			case "view":
				source, err := geolocation.FromSample(req.Lat, req.Lon, req.GeoError)
				if err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				token := tracker.Issue()
				views.Add(1)
				go func(listingID string) {
					defer views.Done()
					view, err := deps.Proximity.Compute(ctx, listingID, source)
					if ctx.Err() != nil {
						return
					}
					res := wsViewResult{Token: token, View: view}
					if err != nil {
						res.Error = domain.ReasonCode(err)
						if res.Error == "internal_error" {
							log.Error("ws proximity failed", "listing_id", listingID, "err", err)
						}
					}

					// Commit and write together, so an older token can never
					// reach the client after a newer one.
					mu.Lock()
					defer mu.Unlock()
					if closed || !tracker.Commit(token, view) {
						return
					}
					_ = writeLocked(res)
				}(req.ListingID)

			case "watch":
				if deps.NATS == nil {
					_ = writeJSON(map[string]string{"error": "route events unavailable"})
					continue
				}
				if _, exists := subs[req.ListingID]; exists {
					_ = writeJSON(map[string]string{"status": "already watching", "listing_id": req.ListingID})
					continue
				}
				s, err := deps.NATS.Subscribe(natsadapter.RouteSubject(req.ListingID), func(m *nats.Msg) {
					raw, err := events.ToJSON(m.Data)
					if err != nil {
						log.Warn("ws dropping malformed route event", "subject", m.Subject, "err", err)
						return
					}
					_ = writeJSON(map[string]json.RawMessage{"event": raw})
				})
				if err != nil {
					_ = writeJSON(map[string]string{"error": "watch failed: " + err.Error()})
					continue
				}
				subs[req.ListingID] = s
				_ = writeJSON(map[string]string{"status": "watching", "listing_id": req.ListingID})

			case "unwatch":
				if s, exists := subs[req.ListingID]; exists {
					_ = s.Unsubscribe()
					delete(subs, req.ListingID)
					_ = writeJSON(map[string]string{"status": "unwatched", "listing_id": req.ListingID})
				} else {
					_ = writeJSON(map[string]string{"error": "not watching " + req.ListingID})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + req.Action})
			}
		}

		cancel()
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		mu.Lock()
		closed = true
		mu.Unlock()
		views.Wait()
		log.Info("ws client disconnected")
	}
}
