package natsadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/events"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber creates a durable subscriber. Consumers sharing a durable
// name share the work.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

// SubscribeRouteEvents delivers every route event. Undecodable messages are
// terminated; handler errors are redelivered up to three times.
func (s *Subscriber) SubscribeRouteEvents(ctx context.Context, handler func(ctx context.Context, event *ports.RouteEvent) error) error {
	sub, err := s.js.Subscribe(RouteSubjectPrefix+">", func(msg *nats.Msg) {
		event, err := events.Decode(msg.Data)
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed route event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
