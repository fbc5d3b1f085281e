package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
)

// State is the lifecycle of one optimistic mutation.
type State int

const (
	Pending State = iota
	Confirmed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	}
	return "unknown"
}

type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// Mutation reports a state change of an optimistic write.
type Mutation struct {
	Kind   MutationKind
	ItemID uuid.UUID
	State  State
	Err    error
}

// Pipeline applies writes to the cache before the server confirms them.
// A confirmed write is replaced by the server's record. A rejected write
// triggers a full refresh, so the cache returns to canonical state, and the
// server error is returned to the caller.
type Pipeline struct {
	api     API
	cache   *Cache
	tripID  uuid.UUID
	userID  uuid.UUID
	log     logging.Logger
	observe func(Mutation)
	now     func() time.Time
}

// NewPipeline creates a pipeline for userID's writes to tripID. observe may
// be nil.
func NewPipeline(api API, cache *Cache, tripID, userID uuid.UUID, log logging.Logger, observe func(Mutation)) *Pipeline {
	if log == nil {
		log = logging.Discard()
	}
	if observe == nil {
		observe = func(Mutation) {}
	}
	return &Pipeline{
		api:     api,
		cache:   cache,
		tripID:  tripID,
		userID:  userID,
		log:     log,
		observe: observe,
		now:     time.Now,
	}
}

// Refresh replaces the cache with the server's canonical state.
func (p *Pipeline) Refresh(ctx context.Context) error {
	snap, err := p.api.ListEntries(ctx, p.tripID)
	if err != nil {
		return err
	}
	p.cache.Replace(snap)
	return nil
}

// Create records a new entry. A provisional entry with a temporary id and
// equal splits over the cached roster is shown until the server answers.
func (p *Pipeline) Create(ctx context.Context, in ledger.EntryInput) (models.BudgetItem, error) {
	if err := in.Normalize(); err != nil {
		return models.BudgetItem{}, err
	}

	tempID := uuid.New()
	p.cache.Upsert(p.provisional(tempID, in))
	p.observe(Mutation{Kind: MutationCreate, ItemID: tempID, State: Pending})

	item, err := p.api.CreateEntry(ctx, p.tripID, in)
	if err != nil {
		p.cache.Remove(tempID)
		return models.BudgetItem{}, p.rollback(ctx, MutationCreate, tempID, err)
	}
	if p.cache.Swap(tempID, item) {
		p.observe(Mutation{Kind: MutationCreate, ItemID: item.ID, State: Confirmed})
	}
	return item, nil
}

// Update applies patch to the cached entry, then to the server.
func (p *Pipeline) Update(ctx context.Context, itemID uuid.UUID, patch ledger.EntryPatch) (models.BudgetItem, error) {
	if err := patch.Normalize(); err != nil {
		return models.BudgetItem{}, err
	}

	cur, cached := p.cache.Snapshot().Item(itemID)
	if cached {
		if err := patch.CheckAgainst(cur); err != nil {
			return models.BudgetItem{}, err
		}
	}
	if cached && !patch.Empty() {
		next := patch.Apply(cur, p.now())
		if patch.RegeneratesSplits(cur) {
			next.Splits = p.provisionalSplits(next.ID, next.Amount)
		}
		p.cache.Upsert(next)
	}
	p.observe(Mutation{Kind: MutationUpdate, ItemID: itemID, State: Pending})

	item, err := p.api.UpdateEntry(ctx, p.tripID, itemID, patch)
	if err != nil {
		return models.BudgetItem{}, p.rollback(ctx, MutationUpdate, itemID, err)
	}
	if p.cache.Upsert(item) {
		p.observe(Mutation{Kind: MutationUpdate, ItemID: itemID, State: Confirmed})
	}
	return item, nil
}

// TogglePaid sets the paid flag of an entry.
func (p *Pipeline) TogglePaid(ctx context.Context, itemID uuid.UUID, paid bool) (models.BudgetItem, error) {
	return p.Update(ctx, itemID, ledger.EntryPatch{IsPaid: &paid})
}

// Delete removes the entry from the cache, then from the server.
func (p *Pipeline) Delete(ctx context.Context, itemID uuid.UUID) error {
	p.cache.Remove(itemID)
	p.observe(Mutation{Kind: MutationDelete, ItemID: itemID, State: Pending})

	if err := p.api.DeleteEntry(ctx, p.tripID, itemID); err != nil {
		return p.rollback(ctx, MutationDelete, itemID, err)
	}
	if !p.cache.Closed() {
		p.observe(Mutation{Kind: MutationDelete, ItemID: itemID, State: Confirmed})
	}
	return nil
}

// rollback restores canonical state after a rejected write and returns the
// original error.
func (p *Pipeline) rollback(ctx context.Context, kind MutationKind, itemID uuid.UUID, cause error) error {
	if p.cache.Closed() {
		return cause
	}
	if err := p.Refresh(ctx); err != nil {
		p.log.Warn(ctx, "refresh after rejected write failed",
			"trip_id", p.tripID, "item_id", itemID, "op", string(kind), "error", err)
	}
	p.observe(Mutation{Kind: kind, ItemID: itemID, State: RolledBack, Err: cause})
	return cause
}

func (p *Pipeline) provisional(id uuid.UUID, in ledger.EntryInput) models.BudgetItem {
	now := p.now()
	paidBy := p.userID
	if in.PaidBy != nil {
		paidBy = *in.PaidBy
	}
	return models.BudgetItem{
		ID:          id,
		TripID:      p.tripID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    in.Category,
		PaidBy:      &paidBy,
		SplitType:   in.SplitType,
		IsPaid:      in.IsPaid,
		CreatedBy:   p.userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Splits:      p.provisionalSplits(id, in.Amount),
	}
}

// provisionalSplits divides amount equally over the cached roster. The
// server computes the real shares; an empty roster yields no splits.
func (p *Pipeline) provisionalSplits(itemID uuid.UUID, amount decimal.Decimal) []models.Split {
	shares, err := ledger.ComputeSplits(amount, models.SplitEqual, p.cache.MemberIDs(), nil)
	if err != nil {
		return nil
	}
	return ledger.ToSplits(itemID, shares)
}
