package natsadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.EventSubscriber with plain NATS subscriptions,
// so every dashboard session sees every event.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber wraps an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeProjectsUpdated calls handler for each catalogue update until
// the returned unsubscribe func is called or ctx is done.
func (s *Subscriber) SubscribeProjectsUpdated(ctx context.Context, handler func(ctx context.Context) error) (func(), error) {
	sub, err := s.conn.Subscribe(SubjectProjectsUpdated, func(msg *nats.Msg) {
		var ev ProjectsUpdated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("malformed projects event", "error", err)
			return
		}
		if err := handler(ctx); err != nil {
			slog.Warn("projects event handler", "count", ev.Count, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	return func() {
		stop()
		_ = sub.Unsubscribe()
	}, nil
}
