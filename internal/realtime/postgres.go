package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GO2GETHER_BUDGET/internal/logging"
)

// maxNotifyPayload stays under Postgres' 8000 byte NOTIFY limit.
const maxNotifyPayload = 7900

// PostgresFeed publishes with pg_notify and subscribes with LISTEN on a
// dedicated pooled connection per subscription.
type PostgresFeed struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

func NewPostgresFeed(pool *pgxpool.Pool, log logging.Logger) *PostgresFeed {
	return &PostgresFeed{pool: pool, log: log}
}

var _ Feed = (*PostgresFeed)(nil)

func (f *PostgresFeed) Publish(ctx context.Context, ev Event) error {
	payload, err := encodeNotify(ev)
	if err != nil {
		return err
	}
	if _, err := f.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, Channel(ev.TripID), payload); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// encodeNotify drops Row when the event would not fit in a notification.
func encodeNotify(ev Event) (string, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	if len(b) > maxNotifyPayload {
		ev.Row = nil
		if b, err = json.Marshal(ev); err != nil {
			return "", fmt.Errorf("encode event: %w", err)
		}
	}
	return string(b), nil
}

func (f *PostgresFeed) Subscribe(ctx context.Context, tripID uuid.UUID) (Subscription, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	channel := Channel(tripID)
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &pgSubscription{
		ch:     make(chan Event, subscriptionBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.loop(ctx, conn, channel, f.log.With("trip_id", tripID))
	return s, nil
}

type pgSubscription struct {
	ch     chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *pgSubscription) Events() <-chan Event { return s.ch }

func (s *pgSubscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}

func (s *pgSubscription) loop(ctx context.Context, conn *pgxpool.Conn, channel string, log logging.Logger) {
	defer close(s.done)
	defer close(s.ch)
	defer func() {
		if !conn.Conn().IsClosed() {
			uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_, _ = conn.Exec(uctx, "UNLISTEN "+pgx.Identifier{channel}.Sanitize())
			cancel()
		}
		conn.Release()
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "listen failed", "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			log.Warn(ctx, "skipping malformed notification", "error", err)
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}
