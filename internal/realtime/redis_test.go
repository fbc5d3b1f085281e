package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/logging"
)

// requireClosed waits for the subscription's channel to be closed,
// discarding anything still queued.
func requireClosed(t *testing.T, sub Subscription) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed")
		}
	}
}

func newRedisFeed(t *testing.T) (*RedisFeed, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	f, err := NewRedisFeed(context.Background(), "redis://"+mr.Addr()+"/0", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, mr
}

func TestRedisFeed_PublishSubscribe(t *testing.T) {
	f, _ := newRedisFeed(t)
	ctx := context.Background()
	trip, other := uuid.New(), uuid.New()

	sub, err := f.Subscribe(ctx, trip)
	require.NoError(t, err)
	otherSub, err := f.Subscribe(ctx, other)
	require.NoError(t, err)
	defer otherSub.Close()

	ev, err := NewEvent(trip, TableBudgetItems, OpUpdate, map[string]any{"title": "Dinner", "is_paid": true})
	require.NoError(t, err)
	require.NoError(t, f.Publish(ctx, ev))

	got := recv(t, sub)
	assert.Equal(t, trip, got.TripID)
	assert.Equal(t, TableBudgetItems, got.Table)
	assert.Equal(t, OpUpdate, got.Op)
	assert.JSONEq(t, `{"title":"Dinner","is_paid":true}`, string(got.Row))

	select {
	case ev := <-otherSub.Events():
		t.Fatalf("other trip received %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, sub.Close())
	requireClosed(t, sub)
	assert.NoError(t, sub.Close(), "close is idempotent")
}

func TestRedisFeed_ContextCancelClosesSubscription(t *testing.T) {
	f, _ := newRedisFeed(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := f.Subscribe(ctx, uuid.New())
	require.NoError(t, err)
	cancel()
	requireClosed(t, sub)
}

func TestRedisFeed_SkipsMalformedMessages(t *testing.T) {
	f, mr := newRedisFeed(t)
	ctx := context.Background()
	trip := uuid.New()

	sub, err := f.Subscribe(ctx, trip)
	require.NoError(t, err)
	defer sub.Close()

	mr.Publish(Channel(trip), "not json")
	ev, err := NewEvent(trip, TableBudgetSplits, OpDelete, map[string]string{"budget_item_id": uuid.NewString()})
	require.NoError(t, err)
	require.NoError(t, f.Publish(ctx, ev))

	assert.Equal(t, TableBudgetSplits, recv(t, sub).Table)
}

func TestRedisFeed_Ping(t *testing.T) {
	f, mr := newRedisFeed(t)
	require.NoError(t, f.Ping(context.Background()))

	mr.SetError("ERR server unavailable")
	assert.Error(t, f.Ping(context.Background()))
	mr.SetError("")
}

func TestNewRedisFeed_Errors(t *testing.T) {
	_, err := NewRedisFeed(context.Background(), "not a url", logging.Discard())
	assert.Error(t, err)
}
