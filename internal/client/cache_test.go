package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/models"
)

func cachedItem(amount string, created time.Time) models.BudgetItem {
	return models.BudgetItem{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Currency:  "EUR",
		CreatedAt: created,
	}
}

func ids(items []models.BudgetItem) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestCache_EmptySummaryUsesDefaultCurrency(t *testing.T) {
	assert.Equal(t, "USD", NewCache("").Snapshot().Summary.Currency)
	assert.Equal(t, "THB", NewCache("THB").Snapshot().Summary.Currency)
}

func TestCache_UpsertKeepsNewestFirst(t *testing.T) {
	c := NewCache("")
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old, mid, newest := cachedItem("10", t0), cachedItem("20", t0.Add(time.Hour)), cachedItem("30", t0.Add(2*time.Hour))

	c.Upsert(mid)
	c.Upsert(old)
	c.Upsert(newest)
	assert.Equal(t, []uuid.UUID{newest.ID, mid.ID, old.ID}, ids(c.Snapshot().Items))

	mid.Title = "edited"
	c.Upsert(mid)
	snap := c.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "edited", snap.Items[1].Title)
	assert.True(t, snap.Summary.Total.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, "EUR", snap.Summary.Currency)
}

func TestCache_SwapDeduplicates(t *testing.T) {
	c := NewCache("")
	now := time.Now()
	provisional := cachedItem("90", now)
	canonical := cachedItem("90", now)

	c.Upsert(provisional)
	// A refresh delivered the canonical entry before the create resolved.
	c.Upsert(canonical)
	c.Swap(provisional.ID, canonical)

	assert.Equal(t, []uuid.UUID{canonical.ID}, ids(c.Snapshot().Items))
}

func TestCache_SnapshotsAreIsolated(t *testing.T) {
	c := NewCache("")
	a := cachedItem("10", time.Now())
	c.Upsert(a)
	before := c.Snapshot()

	c.Remove(a.ID)
	assert.Len(t, before.Items, 1)
	assert.Empty(t, c.Snapshot().Items)
	assert.Greater(t, c.Snapshot().Version, before.Version)
}

func TestCache_ReplaceUsesRoster(t *testing.T) {
	c := NewCache("")
	members := []models.Membership{{UserID: uuid.New()}, {UserID: uuid.New()}}
	c.Replace(models.BudgetSnapshot{
		Items:   []models.BudgetItem{cachedItem("50", time.Now())},
		Members: members,
	})

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Summary.MemberCount)
	assert.True(t, snap.Summary.PerPerson.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, models.MemberIDs(members), c.MemberIDs())
}

func TestCache_ClosedIgnoresWrites(t *testing.T) {
	c := NewCache("")
	c.Close()
	assert.True(t, c.Closed())
	assert.False(t, c.Upsert(cachedItem("1", time.Now())))
	assert.False(t, c.Remove(uuid.New()))
	assert.Empty(t, c.Snapshot().Items)
}

func TestCache_ChangesCoalesce(t *testing.T) {
	c := NewCache("")
	for range 5 {
		c.Upsert(cachedItem("1", time.Now()))
	}
	select {
	case <-c.Changes():
	default:
		t.Fatal("expected a change signal")
	}
	select {
	case <-c.Changes():
		t.Fatal("signals should coalesce")
	default:
	}
}
