package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/repository"
	"GO2GETHER_BUDGET/internal/services"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// serviceAPI calls the services in-process as one user. before runs ahead of
// every call; a non-nil error is returned instead of calling through.
type serviceAPI struct {
	budget *services.BudgetService
	user   uuid.UUID

	mu     sync.Mutex
	before func(op string) error
}

func (a *serviceAPI) setBefore(fn func(op string) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.before = fn
}

func (a *serviceAPI) hook(op string) error {
	a.mu.Lock()
	fn := a.before
	a.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(op)
}

func (a *serviceAPI) ListEntries(ctx context.Context, tripID uuid.UUID) (models.BudgetSnapshot, error) {
	if err := a.hook("list"); err != nil {
		return models.BudgetSnapshot{}, err
	}
	return a.budget.ListEntries(ctx, tripID, a.user)
}

func (a *serviceAPI) CreateEntry(ctx context.Context, tripID uuid.UUID, in ledger.EntryInput) (models.BudgetItem, error) {
	if err := a.hook("create"); err != nil {
		return models.BudgetItem{}, err
	}
	return a.budget.CreateEntry(ctx, tripID, a.user, in)
}

func (a *serviceAPI) UpdateEntry(ctx context.Context, tripID, itemID uuid.UUID, p ledger.EntryPatch) (models.BudgetItem, error) {
	if err := a.hook("update"); err != nil {
		return models.BudgetItem{}, err
	}
	return a.budget.UpdateEntry(ctx, tripID, itemID, a.user, p)
}

func (a *serviceAPI) DeleteEntry(ctx context.Context, tripID, itemID uuid.UUID) error {
	if err := a.hook("delete"); err != nil {
		return err
	}
	return a.budget.DeleteEntry(ctx, tripID, itemID, a.user)
}

type fixture struct {
	store  *repository.Memory
	feed   *realtime.Broker
	trips  *services.TripService
	budget *services.BudgetService
	trip   models.Trip
	alice  uuid.UUID // admin
	bob    uuid.UUID
	carol  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store: repository.NewMemory(),
		feed:  realtime.NewBroker(),
		alice: uuid.New(),
		bob:   uuid.New(),
		carol: uuid.New(),
	}
	log := logging.Discard()
	f.trips = services.NewTripService(f.store, f.feed, log, "USD")
	f.budget = services.NewBudgetService(f.store, f.feed, log, "USD")

	var err error
	f.trip, err = f.trips.CreateTrip(ctx, f.alice, services.TripInput{Name: "Bangkok", MaxMembers: 5})
	require.NoError(t, err)
	for _, u := range []uuid.UUID{f.bob, f.carol} {
		_, err = f.trips.JoinTrip(ctx, f.trip.ID, u)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) api(user uuid.UUID) *serviceAPI {
	return &serviceAPI{budget: f.budget, user: user}
}

func (f *fixture) open(t *testing.T, api *serviceAPI, opts ViewOptions) *TripView {
	t.Helper()
	v, err := OpenTripView(context.Background(), api, f.feed, f.trip.ID, api.user, opts)
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func dinner() ledger.EntryInput {
	return ledger.EntryInput{
		Title:     "Dinner",
		Amount:    decimal.RequireFromString("90.00"),
		Currency:  "THB",
		Category:  "food",
		SplitType: models.SplitEqual,
	}
}

type mutationLog struct {
	mu  sync.Mutex
	all []Mutation
}

func (l *mutationLog) record(m Mutation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, m)
}

func (l *mutationLog) states() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]State, 0, len(l.all))
	for _, m := range l.all {
		out = append(out, m.State)
	}
	return out
}

func TestOpenTripView_LoadsLedger(t *testing.T) {
	f := newFixture(t)
	_, err := f.budget.CreateEntry(context.Background(), f.trip.ID, f.alice, dinner())
	require.NoError(t, err)

	v := f.open(t, f.api(f.bob), ViewOptions{})
	snap := v.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Len(t, snap.Members, 3)
	assert.True(t, snap.Summary.PerPerson.Equal(decimal.RequireFromString("30.00")))
}

func TestOpenTripView_OutsiderRejected(t *testing.T) {
	f := newFixture(t)
	_, err := OpenTripView(context.Background(), f.api(uuid.New()), f.feed, f.trip.ID, uuid.New(), ViewOptions{})
	assert.ErrorIs(t, err, ledger.ErrNotAuthorized)
	assert.Zero(t, f.feed.Subscribers(f.trip.ID))
}

func TestPipeline_CreateShowsPendingThenConfirms(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	release := make(chan struct{})
	api.setBefore(func(op string) error {
		if op == "create" {
			<-release
		}
		return nil
	})
	var muts mutationLog
	v := f.open(t, api, ViewOptions{OnMutation: muts.record})

	type result struct {
		item models.BudgetItem
		err  error
	}
	done := make(chan result, 1)
	go func() {
		item, err := v.Create(context.Background(), dinner())
		done <- result{item, err}
	}()

	require.Eventually(t, func() bool { return len(v.Snapshot().Items) == 1 }, waitFor, tick)
	pending := v.Snapshot().Items[0]
	assert.Equal(t, f.alice, *pending.PaidBy)
	require.Len(t, pending.Splits, 3)
	for _, s := range pending.Splits {
		assert.True(t, s.Amount.Equal(decimal.RequireFromString("30.00")))
	}

	close(release)
	res := <-done
	require.NoError(t, res.err)
	assert.NotEqual(t, pending.ID, res.item.ID)

	snap := v.Snapshot()
	require.Len(t, snap.Items, 1, "provisional entry must be replaced, not duplicated")
	assert.Equal(t, res.item.ID, snap.Items[0].ID)
	assert.Equal(t, []State{Pending, Confirmed}, muts.states())

	// A refresh triggered by the create's own events must not duplicate it.
	require.Never(t, func() bool { return len(v.Snapshot().Items) != 1 }, 100*time.Millisecond, tick)
}

func TestPipeline_CreateRejectedRollsBack(t *testing.T) {
	f := newFixture(t)
	var muts mutationLog
	v := f.open(t, f.api(f.alice), ViewOptions{OnMutation: muts.record})

	in := dinner()
	outsider := uuid.New()
	in.PaidBy = &outsider
	_, err := v.Create(context.Background(), in)

	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "paid_by")
	assert.Empty(t, v.Snapshot().Items)
	assert.Equal(t, []State{Pending, RolledBack}, muts.states())
}

func TestPipeline_CreateInvalidNeverReachesCache(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	calls := 0
	api.setBefore(func(op string) error {
		if op == "create" {
			calls++
		}
		return nil
	})
	v := f.open(t, api, ViewOptions{})
	before := v.Snapshot().Version

	in := dinner()
	in.Title = " "
	_, err := v.Create(context.Background(), in)
	assert.True(t, ledger.IsValidation(err))
	assert.Zero(t, calls)
	assert.Equal(t, before, v.Snapshot().Version)
}

func TestPipeline_UpdateForbiddenRestoresCanonicalState(t *testing.T) {
	f := newFixture(t)
	item, err := f.budget.CreateEntry(context.Background(), f.trip.ID, f.alice, dinner())
	require.NoError(t, err)

	var muts mutationLog
	v := f.open(t, f.api(f.bob), ViewOptions{OnMutation: muts.record})

	title := "Bob's dinner"
	_, err = v.Update(context.Background(), item.ID, ledger.EntryPatch{Title: &title})
	require.ErrorIs(t, err, ledger.ErrForbidden)

	got, ok := v.Snapshot().Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Dinner", got.Title)
	assert.Equal(t, []State{Pending, RolledBack}, muts.states())
}

func TestPipeline_UpdateRegeneratesProvisionalSplits(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	// Poll-only so no feed-driven refresh replaces the provisional state.
	v, err := OpenTripView(context.Background(), api, nil, f.trip.ID, f.alice, ViewOptions{PollInterval: time.Hour})
	require.NoError(t, err)
	t.Cleanup(v.Close)
	item, err := v.Create(context.Background(), dinner())
	require.NoError(t, err)

	release := make(chan struct{})
	api.setBefore(func(op string) error {
		if op == "update" {
			<-release
		}
		return nil
	})
	done := make(chan error, 1)
	amount := decimal.RequireFromString("120")
	go func() {
		_, err := v.Update(context.Background(), item.ID, ledger.EntryPatch{Amount: &amount})
		done <- err
	}()

	require.Eventually(t, func() bool {
		it, _ := v.Snapshot().Item(item.ID)
		return it.Amount.Equal(amount)
	}, waitFor, tick)
	it, _ := v.Snapshot().Item(item.ID)
	require.Len(t, it.Splits, 3)
	assert.True(t, it.Splits[0].Amount.Equal(decimal.RequireFromString("40.00")))

	close(release)
	require.NoError(t, <-done)
	assert.True(t, v.Snapshot().Summary.Total.Equal(amount))
}

func TestPipeline_TogglePaid(t *testing.T) {
	f := newFixture(t)
	v := f.open(t, f.api(f.alice), ViewOptions{})
	item, err := v.Create(context.Background(), dinner())
	require.NoError(t, err)

	got, err := v.TogglePaid(context.Background(), item.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.True(t, v.Snapshot().Summary.Paid.Equal(decimal.RequireFromString("90")))
	assert.True(t, v.Snapshot().Summary.Unpaid.IsZero())
}

func TestPipeline_DeleteFailureRestoresEntry(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	v := f.open(t, api, ViewOptions{})
	item, err := v.Create(context.Background(), dinner())
	require.NoError(t, err)

	boom := errors.New("connection reset")
	api.setBefore(func(op string) error {
		if op == "delete" {
			return boom
		}
		return nil
	})
	err = v.Delete(context.Background(), item.ID)
	require.ErrorIs(t, err, boom)

	_, ok := v.Snapshot().Item(item.ID)
	assert.True(t, ok)
}

func TestPipeline_RollbackRefreshFailureReturnsOriginalError(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	v := f.open(t, api, ViewOptions{})

	boom := errors.New("server unavailable")
	api.setBefore(func(string) error { return boom })
	_, err := v.Create(context.Background(), dinner())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, v.Snapshot().Items)
}

func TestListener_RefreshesOnRemoteChange(t *testing.T) {
	f := newFixture(t)
	v := f.open(t, f.api(f.carol), ViewOptions{})
	require.Empty(t, v.Snapshot().Items)

	item, err := f.budget.CreateEntry(context.Background(), f.trip.ID, f.alice, dinner())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := v.Snapshot().Item(item.ID)
		return ok && len(got.Splits) == 3
	}, waitFor, tick)
}

func TestListener_PollsWithoutFeed(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.carol)
	v, err := OpenTripView(context.Background(), api, nil, f.trip.ID, f.carol, ViewOptions{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(v.Close)

	_, err = f.budget.CreateEntry(context.Background(), f.trip.ID, f.alice, dinner())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(v.Snapshot().Items) == 1 }, waitFor, tick)
}

func TestListener_RequiresTrigger(t *testing.T) {
	f := newFixture(t)
	_, err := OpenTripView(context.Background(), f.api(f.carol), nil, f.trip.ID, f.carol, ViewOptions{})
	assert.Error(t, err)
}

// Bob toggles an entry that Alice (admin) deletes at the same time. Whichever
// request lands first, both caches end without the entry.
func TestConcurrentDeleteAndToggle(t *testing.T) {
	for _, deleteFirst := range []bool{true, false} {
		name := "toggle first"
		if deleteFirst {
			name = "delete first"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			bobAPI := f.api(f.bob)
			bobView := f.open(t, bobAPI, ViewOptions{})
			aliceView := f.open(t, f.api(f.alice), ViewOptions{})

			item, err := bobView.Create(context.Background(), dinner())
			require.NoError(t, err)
			require.Eventually(t, func() bool {
				_, ok := aliceView.Snapshot().Item(item.ID)
				return ok
			}, waitFor, tick)

			if deleteFirst {
				require.NoError(t, aliceView.Delete(context.Background(), item.ID))
				_, err = bobView.TogglePaid(context.Background(), item.ID, true)
				assert.ErrorIs(t, err, ledger.ErrNotFound)
			} else {
				_, err = bobView.TogglePaid(context.Background(), item.ID, true)
				require.NoError(t, err)
				require.NoError(t, aliceView.Delete(context.Background(), item.ID))
			}

			for _, v := range []*TripView{aliceView, bobView} {
				require.Eventually(t, func() bool {
					_, ok := v.Snapshot().Item(item.ID)
					return !ok
				}, waitFor, tick)
			}
		})
	}
}

func TestTripView_CloseDiscardsLateResolution(t *testing.T) {
	f := newFixture(t)
	api := f.api(f.alice)
	release := make(chan struct{})
	api.setBefore(func(op string) error {
		if op == "create" {
			<-release
		}
		return nil
	})
	v, err := OpenTripView(context.Background(), api, f.feed, f.trip.ID, f.alice, ViewOptions{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := v.Create(context.Background(), dinner())
		done <- err
	}()
	require.Eventually(t, func() bool { return len(v.Snapshot().Items) == 1 }, waitFor, tick)

	v.Close()
	assert.Zero(t, f.feed.Subscribers(f.trip.ID))
	closedAt := v.Snapshot()

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, closedAt.Version, v.Snapshot().Version)

	snap, err := f.budget.ListEntries(context.Background(), f.trip.ID, f.alice)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1, "the in-flight write still completes on the server")
}
