package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/repository"
)

// BudgetService is the authoritative ledger of a trip.
type BudgetService struct {
	store           repository.Store
	notify          notifier
	log             logging.Logger
	defaultCurrency string
	now             func() time.Time
}

// NewBudgetService wires the service. feed may be nil.
func NewBudgetService(store repository.Store, feed realtime.Publisher, log logging.Logger, defaultCurrency string) *BudgetService {
	return &BudgetService{
		store:           store,
		notify:          notifier{feed: feed, log: log},
		log:             log,
		defaultCurrency: defaultCurrency,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Authorize reports ErrNotAuthorized unless requester is an active member of
// tripID. Handlers call it before looking at a request body.
func (s *BudgetService) Authorize(ctx context.Context, tripID, requester uuid.UUID) error {
	_, err := activeMembership(ctx, s.store, tripID, requester)
	return err
}

// ListEntries returns the trip's items newest-first with their summary and
// the active roster.
func (s *BudgetService) ListEntries(ctx context.Context, tripID, requester uuid.UUID) (models.BudgetSnapshot, error) {
	if _, err := activeMembership(ctx, s.store, tripID, requester); err != nil {
		return models.BudgetSnapshot{}, err
	}

	items, err := s.store.ListItems(ctx, tripID)
	if err != nil {
		return models.BudgetSnapshot{}, upstream("list budget items", err)
	}
	members, err := s.store.ListActiveMembers(ctx, tripID)
	if err != nil {
		return models.BudgetSnapshot{}, upstream("list members", err)
	}

	return models.BudgetSnapshot{
		Items:   items,
		Summary: ledger.Summarize(items, len(members), s.defaultCurrency),
		Members: members,
	}, nil
}

// CreateEntry validates in, stores the item and then its splits across the
// current active roster. A split write failure leaves the item in place and
// is only logged.
func (s *BudgetService) CreateEntry(ctx context.Context, tripID, requester uuid.UUID, in ledger.EntryInput) (models.BudgetItem, error) {
	if _, err := activeMembership(ctx, s.store, tripID, requester); err != nil {
		return models.BudgetItem{}, err
	}
	if err := in.Normalize(); err != nil {
		return models.BudgetItem{}, err
	}

	members, err := s.store.ListActiveMembers(ctx, tripID)
	if err != nil {
		return models.BudgetItem{}, upstream("list members", err)
	}
	ids := models.MemberIDs(members)

	paidBy := requester
	if in.PaidBy != nil {
		paidBy = *in.PaidBy
	}
	if !slices.Contains(ids, paidBy) {
		return models.BudgetItem{}, ledger.NewValidationError("paid_by", "must be an active trip member")
	}

	shares, err := ledger.ComputeSplits(in.Amount, in.SplitType, ids, in.Shares)
	if err != nil {
		return models.BudgetItem{}, err
	}

	now := s.now()
	item := models.BudgetItem{
		ID:          uuid.New(),
		TripID:      tripID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    in.Category,
		PaidBy:      &paidBy,
		SplitType:   in.SplitType,
		IsPaid:      in.IsPaid,
		CreatedBy:   requester,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertItem(ctx, item); err != nil {
		return models.BudgetItem{}, upstream("insert budget item", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableBudgetItems, realtime.OpInsert, item)

	item.Splits = s.writeSplits(ctx, item, shares)
	return item, nil
}

// writeSplits stores shares for item and returns what was stored.
func (s *BudgetService) writeSplits(ctx context.Context, item models.BudgetItem, shares []ledger.Share) []models.Split {
	splits := ledger.ToSplits(item.ID, shares)
	if err := s.store.InsertSplits(ctx, splits); err != nil {
		s.log.Warn(ctx, "budget item stored without splits",
			"trip_id", item.TripID, "item_id", item.ID,
			"error", fmt.Errorf("%w: %w", ledger.ErrPartialFailure, err))
		return []models.Split{}
	}
	s.notify.publish(ctx, item.TripID, realtime.TableBudgetSplits, realtime.OpInsert, splits)
	return splits
}

// loadForWrite returns the item if requester may modify it.
func (s *BudgetService) loadForWrite(ctx context.Context, tripID, itemID, requester uuid.UUID) (models.BudgetItem, error) {
	m, err := activeMembership(ctx, s.store, tripID, requester)
	if err != nil {
		return models.BudgetItem{}, err
	}
	item, err := s.store.GetItem(ctx, tripID, itemID)
	if err != nil {
		return models.BudgetItem{}, upstream("load budget item", err)
	}
	if item.CreatedBy != requester && !m.IsAdmin() {
		return models.BudgetItem{}, ledger.ErrForbidden
	}
	return item, nil
}

// UpdateEntry applies the supplied fields of patch. Splits are regenerated
// only when the amount or split type changes, or when new shares are given
// for a custom or percentage item.
func (s *BudgetService) UpdateEntry(ctx context.Context, tripID, itemID, requester uuid.UUID, patch ledger.EntryPatch) (models.BudgetItem, error) {
	item, err := s.loadForWrite(ctx, tripID, itemID, requester)
	if err != nil {
		return models.BudgetItem{}, err
	}
	if err := patch.Normalize(); err != nil {
		return models.BudgetItem{}, err
	}
	if err := patch.CheckAgainst(item); err != nil {
		return models.BudgetItem{}, err
	}
	if patch.Empty() {
		return item, nil
	}

	regenerate := patch.RegeneratesSplits(item)
	var members []models.Membership
	if regenerate || patch.PaidBy != nil {
		if members, err = s.store.ListActiveMembers(ctx, tripID); err != nil {
			return models.BudgetItem{}, upstream("list members", err)
		}
	}
	ids := models.MemberIDs(members)
	if patch.PaidBy != nil && !slices.Contains(ids, *patch.PaidBy) {
		return models.BudgetItem{}, ledger.NewValidationError("paid_by", "must be an active trip member")
	}

	updated := patch.Apply(item, s.now())

	var shares []ledger.Share
	if regenerate {
		if shares, err = ledger.ComputeSplits(updated.Amount, updated.SplitType, ids, patch.Shares); err != nil {
			return models.BudgetItem{}, err
		}
	}

	if err := s.store.UpdateItem(ctx, updated); err != nil {
		return models.BudgetItem{}, upstream("update budget item", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableBudgetItems, realtime.OpUpdate, updated)

	if !regenerate {
		return updated, nil
	}
	if err := s.store.DeleteSplits(ctx, itemID); err != nil {
		s.log.Warn(ctx, "budget item updated but stale splits kept",
			"trip_id", tripID, "item_id", itemID,
			"error", fmt.Errorf("%w: %w", ledger.ErrPartialFailure, err))
		return updated, nil
	}
	s.notify.publish(ctx, tripID, realtime.TableBudgetSplits, realtime.OpDelete, map[string]uuid.UUID{"budget_item_id": itemID})
	updated.Splits = s.writeSplits(ctx, updated, shares)
	return updated, nil
}

// ToggleEntryPaid sets the item's paid flag. Split paid flags are untouched.
func (s *BudgetService) ToggleEntryPaid(ctx context.Context, tripID, itemID, requester uuid.UUID, paid bool) (models.BudgetItem, error) {
	return s.UpdateEntry(ctx, tripID, itemID, requester, ledger.EntryPatch{IsPaid: &paid})
}

// DeleteEntry removes the item's splits and then the item. If the splits
// cannot be removed the item is left untouched.
func (s *BudgetService) DeleteEntry(ctx context.Context, tripID, itemID, requester uuid.UUID) error {
	if _, err := s.loadForWrite(ctx, tripID, itemID, requester); err != nil {
		return err
	}

	if err := s.store.DeleteSplits(ctx, itemID); err != nil {
		return upstream("delete budget splits", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableBudgetSplits, realtime.OpDelete, map[string]uuid.UUID{"budget_item_id": itemID})

	if err := s.store.DeleteItem(ctx, tripID, itemID); err != nil {
		return upstream("delete budget item", err)
	}
	s.notify.publish(ctx, tripID, realtime.TableBudgetItems, realtime.OpDelete, map[string]uuid.UUID{"id": itemID})
	return nil
}

// ListItemSplits returns the stored splits of one item.
func (s *BudgetService) ListItemSplits(ctx context.Context, tripID, itemID, requester uuid.UUID) ([]models.Split, error) {
	if _, err := activeMembership(ctx, s.store, tripID, requester); err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, tripID, itemID)
	if err != nil {
		return nil, upstream("load budget item", err)
	}
	return item.Splits, nil
}
