// Package services holds the authoritative ledger operations. Every entry
// point checks membership before touching data and publishes change events
// after successful writes.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/repository"
)

// upstream wraps a store failure; not-found passes through unchanged.
func upstream(op string, err error) error {
	if errors.Is(err, ledger.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ledger.ErrUpstream, op, err)
}

// activeMembership returns the requester's membership or ErrNotAuthorized.
func activeMembership(ctx context.Context, store repository.Members, tripID, userID uuid.UUID) (models.Membership, error) {
	m, err := store.GetMembership(ctx, tripID, userID)
	if errors.Is(err, ledger.ErrNotFound) {
		return models.Membership{}, ledger.ErrNotAuthorized
	}
	if err != nil {
		return models.Membership{}, upstream("load membership", err)
	}
	if !m.IsActive {
		return models.Membership{}, ledger.ErrNotAuthorized
	}
	return m, nil
}

// notifier publishes best-effort; a failed publish never fails the write.
type notifier struct {
	feed realtime.Publisher
	log  logging.Logger
}

func (n notifier) publish(ctx context.Context, tripID uuid.UUID, table realtime.Table, op realtime.Op, row any) {
	if n.feed == nil {
		return
	}
	ev, err := realtime.NewEvent(tripID, table, op, row)
	if err == nil {
		err = n.feed.Publish(ctx, ev)
	}
	if err != nil {
		n.log.Warn(ctx, "publish change event failed",
			"trip_id", tripID, "table", table, "op", op, "error", err)
	}
}
