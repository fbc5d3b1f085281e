package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Broker is an in-process Feed.
type Broker struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[*memorySubscription]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uuid.UUID]map[*memorySubscription]struct{})}
}

var _ Feed = (*Broker)(nil)

// Publish fans ev out to the trip's subscribers without blocking.
func (b *Broker) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for s := range b.subs[ev.TripID] {
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscription that ends on Close or when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, tripID uuid.UUID) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &memorySubscription{broker: b, tripID: tripID, ch: make(chan Event, subscriptionBuffer)}

	b.mu.Lock()
	if b.subs[tripID] == nil {
		b.subs[tripID] = make(map[*memorySubscription]struct{})
	}
	b.subs[tripID][s] = struct{}{}
	s.stop = context.AfterFunc(ctx, func() { _ = s.Close() })
	b.mu.Unlock()

	return s, nil
}

// Subscribers reports how many subscriptions are open for tripID.
func (b *Broker) Subscribers(tripID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[tripID])
}

func (b *Broker) remove(s *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.subs[s.tripID]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	s.stop()
	if len(set) == 0 {
		delete(b.subs, s.tripID)
	}
	close(s.ch)
}

type memorySubscription struct {
	broker *Broker
	tripID uuid.UUID
	ch     chan Event
	stop   func() bool
	once   sync.Once
}

func (s *memorySubscription) Events() <-chan Event { return s.ch }

func (s *memorySubscription) Close() error {
	s.once.Do(func() { s.broker.remove(s) })
	return nil
}
