package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/realtime"
)

// ViewOptions configures OpenTripView.
type ViewOptions struct {
	// DefaultCurrency is shown for an empty ledger.
	DefaultCurrency string
	// PollInterval refreshes periodically in addition to feed events. It
	// is required when feed is nil.
	PollInterval time.Duration
	Logger       logging.Logger
	// OnMutation observes optimistic writes.
	OnMutation func(Mutation)
}

// TripView is an open budget screen for one trip: the cache, the pipeline
// writing through it and the listener keeping it fresh.
type TripView struct {
	*Pipeline

	cache    *Cache
	listener *Listener
}

// OpenTripView subscribes to the trip's changes, loads the ledger and
// returns a live view. The subscription is taken before the first load so
// changes in between trigger a refresh instead of being lost.
func OpenTripView(ctx context.Context, api API, feed realtime.Subscriber, tripID, userID uuid.UUID, opts ViewOptions) (*TripView, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("trip_id", tripID)

	cache := NewCache(opts.DefaultCurrency)
	pipeline := NewPipeline(api, cache, tripID, userID, log, opts.OnMutation)
	listener := NewListener(feed, tripID, pipeline.Refresh, opts.PollInterval, log)

	if err := listener.Start(ctx); err != nil {
		return nil, err
	}
	if err := pipeline.Refresh(ctx); err != nil {
		listener.Stop()
		return nil, err
	}
	return &TripView{Pipeline: pipeline, cache: cache, listener: listener}, nil
}

// Snapshot returns the current cached ledger.
func (v *TripView) Snapshot() Snapshot { return v.cache.Snapshot() }

// Changes signals after every cache update.
func (v *TripView) Changes() <-chan struct{} { return v.cache.Changes() }

// Close unsubscribes and discards the cache. Writes still in flight finish
// against the server but no longer touch the cache.
func (v *TripView) Close() {
	v.listener.Stop()
	v.cache.Close()
}
