// Package repository defines the ledger's storage boundary and its
// PostgreSQL implementation.
package repository

import (
	"context"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/models"
)

// Trips stores trips.
type Trips interface {
	CreateTrip(ctx context.Context, trip models.Trip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (models.Trip, error)
}

// Members stores trip memberships. Rows are deactivated, never deleted.
type Members interface {
	// GetMembership returns ledger.ErrNotFound when the user never joined.
	GetMembership(ctx context.Context, tripID, userID uuid.UUID) (models.Membership, error)
	ListActiveMembers(ctx context.Context, tripID uuid.UUID) ([]models.Membership, error)
	// UpsertMembership inserts m or overwrites role and active flag of the
	// existing row.
	UpsertMembership(ctx context.Context, m models.Membership) error
	SetMemberActive(ctx context.Context, tripID, userID uuid.UUID, active bool) error
}

// BudgetItems stores ledger entries.
type BudgetItems interface {
	// ListItems returns the trip's items newest-first with splits attached.
	ListItems(ctx context.Context, tripID uuid.UUID) ([]models.BudgetItem, error)
	GetItem(ctx context.Context, tripID, itemID uuid.UUID) (models.BudgetItem, error)
	InsertItem(ctx context.Context, item models.BudgetItem) error
	UpdateItem(ctx context.Context, item models.BudgetItem) error
	DeleteItem(ctx context.Context, tripID, itemID uuid.UUID) error
}

// Splits stores per-member shares of an item.
type Splits interface {
	ListSplits(ctx context.Context, itemID uuid.UUID) ([]models.Split, error)
	// InsertSplits stores all splits or none.
	InsertSplits(ctx context.Context, splits []models.Split) error
	DeleteSplits(ctx context.Context, itemID uuid.UUID) error
}

// Store is everything the ledger services need from persistence.
type Store interface {
	Trips
	Members
	BudgetItems
	Splits
}
