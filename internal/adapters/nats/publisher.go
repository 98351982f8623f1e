package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/events"
)

// RouteSubjectPrefix is prepended to the listing id (or "adhoc") to form
// the subject of a route event.
const RouteSubjectPrefix = "proximity.route."

// RouteSubject returns the subject route events for listingID go to.
func RouteSubject(listingID string) string {
	if listingID == "" {
		return RouteSubjectPrefix + "adhoc"
	}
	return RouteSubjectPrefix + listingID
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "PROXIMITY_ROUTES",
		Subjects:  []string{RouteSubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRouteEvent publishes one resolution attempt on the listing's
// subject, de-duplicated by event id.
func (p *Publisher) PublishRouteEvent(ctx context.Context, event *ports.RouteEvent) error {
	data, err := events.Encode(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(RouteSubject(event.ListingID), data,
		nats.Context(ctx),
		nats.MsgId(event.EventID),
	)
	return err
}

// Conn exposes the underlying connection for health checks and relays.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
