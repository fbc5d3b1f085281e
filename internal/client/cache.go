package client

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
)

// Snapshot is an immutable view of the cached ledger. Callers must not
// modify the slices it holds.
type Snapshot struct {
	Items   []models.BudgetItem
	Members []models.Membership
	Summary models.Summary
	// Version increases on every applied change.
	Version uint64
}

// Item returns the entry with id, if cached.
func (s Snapshot) Item(id uuid.UUID) (models.BudgetItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return models.BudgetItem{}, false
}

// Cache holds one trip's ledger for a single client. Writers build a new
// snapshot and swap it in, so readers never observe a partial update. Once
// closed every write is ignored.
type Cache struct {
	mu              sync.RWMutex
	snap            Snapshot
	closed          bool
	defaultCurrency string
	changed         chan struct{}
}

// NewCache returns an empty cache. defaultCurrency is used for the summary
// of an empty ledger.
func NewCache(defaultCurrency string) *Cache {
	if defaultCurrency == "" {
		defaultCurrency = ledger.DefaultCurrency
	}
	c := &Cache{
		defaultCurrency: defaultCurrency,
		changed:         make(chan struct{}, 1),
	}
	c.snap.Summary = ledger.Summarize(nil, 0, defaultCurrency)
	return c
}

// Snapshot returns the current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Changes delivers a signal after each applied write. Signals coalesce: a
// slow reader sees one pending signal, never a backlog.
func (c *Cache) Changes() <-chan struct{} {
	return c.changed
}

// MemberIDs returns the cached active roster.
func (c *Cache) MemberIDs() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.MemberIDs(c.snap.Members)
}

// Replace installs a canonical snapshot from the server.
func (c *Cache) Replace(s models.BudgetSnapshot) bool {
	return c.apply(func(items []models.BudgetItem, members []models.Membership) ([]models.BudgetItem, []models.Membership) {
		return slices.Clone(s.Items), slices.Clone(s.Members)
	})
}

// Upsert replaces the entry with the same id, or inserts it in
// newest-first position.
func (c *Cache) Upsert(item models.BudgetItem) bool {
	return c.apply(func(items []models.BudgetItem, members []models.Membership) ([]models.BudgetItem, []models.Membership) {
		if i := indexOf(items, item.ID); i >= 0 {
			items[i] = item
			return items, members
		}
		return insertSorted(items, item), members
	})
}

// Swap replaces the provisional entry oldID with its canonical version. Any
// copy of the canonical entry that already arrived through a refresh is
// dropped so the entry is listed once.
func (c *Cache) Swap(oldID uuid.UUID, item models.BudgetItem) bool {
	return c.apply(func(items []models.BudgetItem, members []models.Membership) ([]models.BudgetItem, []models.Membership) {
		items = slices.DeleteFunc(items, func(it models.BudgetItem) bool {
			return it.ID == oldID || it.ID == item.ID
		})
		return insertSorted(items, item), members
	})
}

// Remove drops the entry with id. Removing an absent entry still counts as
// an applied write.
func (c *Cache) Remove(id uuid.UUID) bool {
	return c.apply(func(items []models.BudgetItem, members []models.Membership) ([]models.BudgetItem, []models.Membership) {
		return slices.DeleteFunc(items, func(it models.BudgetItem) bool { return it.ID == id }), members
	})
}

// Close discards the cache. Later writes return false.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close was called.
func (c *Cache) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// apply runs fn on private copies of the current slices and publishes the
// result with a recomputed summary.
func (c *Cache) apply(fn func([]models.BudgetItem, []models.Membership) ([]models.BudgetItem, []models.Membership)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	items, members := fn(slices.Clone(c.snap.Items), slices.Clone(c.snap.Members))
	c.snap = Snapshot{
		Items:   items,
		Members: members,
		Summary: ledger.Summarize(items, len(members), c.defaultCurrency),
		Version: c.snap.Version + 1,
	}
	c.mu.Unlock()

	select {
	case c.changed <- struct{}{}:
	default:
	}
	return true
}

func indexOf(items []models.BudgetItem, id uuid.UUID) int {
	return slices.IndexFunc(items, func(it models.BudgetItem) bool { return it.ID == id })
}

// insertSorted keeps items ordered by created_at descending.
func insertSorted(items []models.BudgetItem, item models.BudgetItem) []models.BudgetItem {
	i := slices.IndexFunc(items, func(it models.BudgetItem) bool {
		return it.CreatedAt.Before(item.CreatedAt)
	})
	if i < 0 {
		return append(items, item)
	}
	return slices.Insert(items, i, item)
}
