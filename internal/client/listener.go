package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/realtime"
)

// Listener refreshes the cache whenever the change feed reports activity on
// the trip. Events are only a signal: their rows are not merged, the whole
// ledger is fetched again. With a poll interval it also refreshes on a
// timer, which is the only trigger when there is no feed.
type Listener struct {
	feed    realtime.Subscriber
	tripID  uuid.UUID
	refresh func(context.Context) error
	log     logging.Logger
	poll    time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewListener(feed realtime.Subscriber, tripID uuid.UUID, refresh func(context.Context) error, poll time.Duration, log logging.Logger) *Listener {
	if log == nil {
		log = logging.Discard()
	}
	return &Listener{feed: feed, tripID: tripID, refresh: refresh, poll: poll, log: log}
}

// Start subscribes before returning, so no change made after Start can be
// missed, then listens in the background until Stop.
func (l *Listener) Start(ctx context.Context) error {
	if l.feed == nil && l.poll <= 0 {
		return fmt.Errorf("listener needs a feed or a poll interval")
	}

	ctx, cancel := context.WithCancel(ctx)
	var sub realtime.Subscription
	if l.feed != nil {
		var err error
		if sub, err = l.feed.Subscribe(ctx, l.tripID); err != nil {
			cancel()
			return fmt.Errorf("subscribe to trip %s: %w", l.tripID, err)
		}
	}
	l.cancel = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if sub != nil {
			defer sub.Close()
		}
		l.loop(ctx, sub)
	}()
	return nil
}

// Stop unsubscribes and waits for the background loop to exit.
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
}

func (l *Listener) loop(ctx context.Context, sub realtime.Subscription) {
	var events <-chan realtime.Event
	if sub != nil {
		events = sub.Events()
	}
	var tick <-chan time.Time
	if l.poll > 0 {
		t := time.NewTicker(l.poll)
		defer t.Stop()
		tick = t.C
	}

	for {
		last := false
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if ok {
				l.log.Debug(ctx, "change received", "trip_id", l.tripID, "table", string(ev.Table), "op", string(ev.Op))
			}
			if !ok || drain(events) {
				if ctx.Err() != nil {
					return
				}
				events = nil
				l.log.Warn(ctx, "change feed closed", "trip_id", l.tripID)
				if tick == nil {
					if !ok {
						return
					}
					// Still refresh for the event that came in before the close.
					last = true
				}
			}
		case <-tick:
		}

		if err := l.refresh(ctx); err != nil && ctx.Err() == nil {
			l.log.Warn(ctx, "refresh failed", "trip_id", l.tripID, "error", err)
		}
		if last {
			return
		}
	}
}

// drain discards queued events so a burst costs a single refresh. It
// reports whether the channel was closed.
func drain(events <-chan realtime.Event) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return true
			}
		default:
			return false
		}
	}
}
