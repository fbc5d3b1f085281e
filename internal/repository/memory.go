package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
)

type memberKey struct {
	trip, user uuid.UUID
}

// Memory is a process-local Store with the same observable behaviour as
// Postgres, including cascading deletes. Used for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	trips   map[uuid.UUID]models.Trip
	members map[memberKey]models.Membership
	items   map[uuid.UUID]models.BudgetItem
	splits  map[uuid.UUID][]models.Split
}

func NewMemory() *Memory {
	return &Memory{
		trips:   make(map[uuid.UUID]models.Trip),
		members: make(map[memberKey]models.Membership),
		items:   make(map[uuid.UUID]models.BudgetItem),
		splits:  make(map[uuid.UUID][]models.Split),
	}
}

var _ Store = (*Memory)(nil)

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) CreateTrip(_ context.Context, t models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[t.ID]; ok {
		return fmt.Errorf("insert trip: duplicate id %s", t.ID)
	}
	m.trips[t.ID] = t
	return nil
}

func (m *Memory) GetTrip(_ context.Context, tripID uuid.UUID) (models.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trips[tripID]
	if !ok {
		return models.Trip{}, fmt.Errorf("trip: %w", ledger.ErrNotFound)
	}
	return t, nil
}

func (m *Memory) GetMembership(_ context.Context, tripID, userID uuid.UUID) (models.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.members[memberKey{tripID, userID}]
	if !ok {
		return models.Membership{}, fmt.Errorf("membership: %w", ledger.ErrNotFound)
	}
	return mem, nil
}

func (m *Memory) ListActiveMembers(_ context.Context, tripID uuid.UUID) ([]models.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Membership, 0)
	for k, mem := range m.members {
		if k.trip == tripID && mem.IsActive {
			out = append(out, mem)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out, nil
}

func (m *Memory) UpsertMembership(_ context.Context, mem models.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[mem.TripID]; !ok {
		return fmt.Errorf("upsert membership: trip %s does not exist", mem.TripID)
	}
	k := memberKey{mem.TripID, mem.UserID}
	if cur, ok := m.members[k]; ok {
		cur.Role = mem.Role
		cur.IsActive = mem.IsActive
		m.members[k] = cur
		return nil
	}
	m.members[k] = mem
	return nil
}

func (m *Memory) SetMemberActive(_ context.Context, tripID, userID uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey{tripID, userID}
	cur, ok := m.members[k]
	if !ok {
		return fmt.Errorf("membership: %w", ledger.ErrNotFound)
	}
	cur.IsActive = active
	m.members[k] = cur
	return nil
}

func (m *Memory) ListItems(_ context.Context, tripID uuid.UUID) ([]models.BudgetItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.BudgetItem, 0)
	for _, it := range m.items {
		if it.TripID == tripID {
			out = append(out, m.withSplits(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *Memory) GetItem(_ context.Context, tripID, itemID uuid.UUID) (models.BudgetItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[itemID]
	if !ok || it.TripID != tripID {
		return models.BudgetItem{}, fmt.Errorf("budget item: %w", ledger.ErrNotFound)
	}
	return m.withSplits(it), nil
}

func (m *Memory) withSplits(it models.BudgetItem) models.BudgetItem {
	it.Splits = append(make([]models.Split, 0, len(m.splits[it.ID])), m.splits[it.ID]...)
	return it
}

func (m *Memory) InsertItem(_ context.Context, it models.BudgetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[it.TripID]; !ok {
		return fmt.Errorf("insert budget item: trip %s does not exist", it.TripID)
	}
	if _, ok := m.items[it.ID]; ok {
		return fmt.Errorf("insert budget item: duplicate id %s", it.ID)
	}
	it.Splits = nil
	m.items[it.ID] = it
	return nil
}

func (m *Memory) UpdateItem(_ context.Context, it models.BudgetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[it.ID]
	if !ok || cur.TripID != it.TripID {
		return fmt.Errorf("budget item: %w", ledger.ErrNotFound)
	}
	it.Splits = nil
	it.CreatedAt = cur.CreatedAt
	it.CreatedBy = cur.CreatedBy
	m.items[it.ID] = it
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, tripID, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[itemID]
	if !ok || cur.TripID != tripID {
		return fmt.Errorf("budget item: %w", ledger.ErrNotFound)
	}
	delete(m.items, itemID)
	delete(m.splits, itemID)
	return nil
}

func (m *Memory) ListSplits(_ context.Context, itemID uuid.UUID) ([]models.Split, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(make([]models.Split, 0, len(m.splits[itemID])), m.splits[itemID]...), nil
}

func (m *Memory) InsertSplits(_ context.Context, splits []models.Split) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range splits {
		if _, ok := m.items[s.ItemID]; !ok {
			return fmt.Errorf("insert budget splits: item %s does not exist", s.ItemID)
		}
		for _, cur := range m.splits[s.ItemID] {
			if cur.UserID == s.UserID {
				return fmt.Errorf("insert budget splits: duplicate split for user %s", s.UserID)
			}
		}
	}
	touched := make(map[uuid.UUID]bool)
	for _, s := range splits {
		m.splits[s.ItemID] = append(m.splits[s.ItemID], s)
		touched[s.ItemID] = true
	}
	for id := range touched {
		sort.Slice(m.splits[id], func(i, j int) bool {
			return m.splits[id][i].UserID.String() < m.splits[id][j].UserID.String()
		})
	}
	return nil
}

func (m *Memory) DeleteSplits(_ context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.splits, itemID)
	return nil
}
