package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"GO2GETHER_BUDGET/internal/logging"
)

// RedisFeed carries events over Redis pub/sub.
type RedisFeed struct {
	client *redis.Client
	log    logging.Logger
}

// NewRedisFeed connects to redisURL and checks the connection.
func NewRedisFeed(ctx context.Context, redisURL string, log logging.Logger) (*RedisFeed, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info(ctx, "redis connection established")
	return &RedisFeed{client: client, log: log}, nil
}

var _ Feed = (*RedisFeed)(nil)

func (f *RedisFeed) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := f.client.Publish(ctx, Channel(ev.TripID), b).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, tripID uuid.UUID) (Subscription, error) {
	ps := f.client.Subscribe(ctx, Channel(tripID))
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	s := &redisSubscription{ps: ps, ch: make(chan Event, subscriptionBuffer), done: make(chan struct{})}
	go s.loop(ctx, f.log.With("trip_id", tripID))
	return s, nil
}

// Ping checks the Redis connection.
func (f *RedisFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}

type redisSubscription struct {
	ps   *redis.PubSub
	ch   chan Event
	done chan struct{}
}

func (s *redisSubscription) Events() <-chan Event { return s.ch }

func (s *redisSubscription) Close() error {
	_ = s.ps.Close()
	<-s.done
	return nil
}

func (s *redisSubscription) loop(ctx context.Context, log logging.Logger) {
	defer close(s.done)
	defer close(s.ch)

	msgs := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.ps.Close()
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn(ctx, "skipping malformed message", "error", err)
				continue
			}
			select {
			case s.ch <- ev:
			default:
			}
		}
	}
}
