package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
// Subscriptions are ephemeral and start at new messages, so every
// replica sees every event.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeChecks(ctx context.Context, handler func(ctx context.Context, event *domain.CheckEvent) error) error {
	return s.subscribe(SubjectChecks, func(data []byte) error {
		var event domain.CheckEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}
		return handler(ctx, &event)
	})
}

func (s *Subscriber) SubscribeZoneChanges(ctx context.Context, handler func(ctx context.Context, event *domain.ZoneEvent) error) error {
	return s.subscribe(SubjectZonesAll, func(data []byte) error {
		var event domain.ZoneEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}
		return handler(ctx, &event)
	})
}

func (s *Subscriber) subscribe(subject string, handle func(data []byte) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handle(msg.Data); err != nil {
			slog.Warn("event handler failed", "subject", msg.Subject, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.BindStream(StreamName),
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
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
