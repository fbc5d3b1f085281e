package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitCustom     SplitType = "custom"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is one of the supported split strategies.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitCustom, SplitPercentage:
		return true
	}
	return false
}

// BudgetItem is one recorded expense of a trip (a ledger entry).
type BudgetItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TripID      uuid.UUID       `json:"trip_id" db:"trip_id"`
	Title       string          `json:"title" db:"title"`
	Description *string         `json:"description,omitempty" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    string          `json:"currency" db:"currency"`
	Category    string          `json:"category" db:"category"`
	PaidBy      *uuid.UUID      `json:"paid_by" db:"paid_by"`
	SplitType   SplitType       `json:"split_type" db:"split_type"`
	IsPaid      bool            `json:"is_paid" db:"is_paid"`
	CreatedBy   uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Splits is filled from budget_splits; it can be empty when split
	// generation failed after the item itself was stored.
	Splits []Split `json:"splits"`
}

// Split is one member's share of a budget item.
type Split struct {
	ID     uuid.UUID       `json:"id" db:"id"`
	ItemID uuid.UUID       `json:"budget_item_id" db:"budget_item_id"`
	UserID uuid.UUID       `json:"user_id" db:"user_id"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
	IsPaid bool            `json:"is_paid" db:"is_paid"`
}

// Summary is derived from the current item set and never stored.
type Summary struct {
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Unpaid      decimal.Decimal `json:"unpaid"`
	PerPerson   decimal.Decimal `json:"per_person"`
	MemberCount int             `json:"member_count"`
	Currency    string          `json:"currency"`
}

// BudgetSnapshot is the canonical state of a trip's ledger as returned by
// the list operation.
type BudgetSnapshot struct {
	Items   []BudgetItem
	Summary Summary
	Members []Membership
}
