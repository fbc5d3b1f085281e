package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
)

// SplitInput is one member's share for custom (amount) or percentage
// (percentage) split types.
type SplitInput struct {
	UserID     uuid.UUID        `json:"user_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`
	Percentage *decimal.Decimal `json:"percentage,omitempty" swaggertype:"number"`
}

// CreateBudgetItemRequest represents the payload to record an expense
type CreateBudgetItemRequest struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	PaidBy      *uuid.UUID      `json:"paid_by,omitempty"`
	SplitType   string          `json:"split_type"` // equal | custom | percentage
	IsPaid      bool            `json:"is_paid"`
	Description *string         `json:"description,omitempty"`
	Splits      []SplitInput    `json:"splits,omitempty"`
}

// UpdateBudgetItemRequest represents fields allowed to update a budget item
// All fields are optional; only provided ones will be updated
type UpdateBudgetItemRequest struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number"`
	Currency    *string          `json:"currency"`
	Category    *string          `json:"category"`
	PaidBy      *uuid.UUID       `json:"paid_by"`
	SplitType   *string          `json:"split_type"`
	IsPaid      *bool            `json:"is_paid"`
	Description *string          `json:"description"`
	Splits      []SplitInput     `json:"splits,omitempty"`
}

// BudgetListResponse is the canonical ledger state of a trip
type BudgetListResponse struct {
	BudgetItems []models.BudgetItem `json:"budget_items"`
	Summary     models.Summary      `json:"summary"`
	TripMembers []models.Membership `json:"trip_members"`
}

// BudgetItemResponse envelope
type BudgetItemResponse struct {
	BudgetItem models.BudgetItem `json:"budget_item"`
}

// SplitListResponse envelope
type SplitListResponse struct {
	Splits []models.Split `json:"splits"`
}

// ToInput converts the request into a ledger create intent.
func (r CreateBudgetItemRequest) ToInput() (ledger.EntryInput, error) {
	shares, err := sharesFromWire(r.Splits)
	if err != nil {
		return ledger.EntryInput{}, err
	}
	return ledger.EntryInput{
		Title:       r.Title,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Category:    r.Category,
		Description: r.Description,
		PaidBy:      r.PaidBy,
		SplitType:   models.SplitType(r.SplitType),
		IsPaid:      r.IsPaid,
		Shares:      shares,
	}, nil
}

// ToPatch converts the request into a ledger partial update.
func (r UpdateBudgetItemRequest) ToPatch() (ledger.EntryPatch, error) {
	shares, err := sharesFromWire(r.Splits)
	if err != nil {
		return ledger.EntryPatch{}, err
	}
	p := ledger.EntryPatch{
		Title:       r.Title,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Category:    r.Category,
		Description: r.Description,
		PaidBy:      r.PaidBy,
		IsPaid:      r.IsPaid,
		Shares:      shares,
	}
	if r.SplitType != nil {
		st := models.SplitType(*r.SplitType)
		p.SplitType = &st
	}
	return p, nil
}

func sharesFromWire(in []SplitInput) ([]ledger.ShareInput, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]ledger.ShareInput, 0, len(in))
	for _, s := range in {
		switch {
		case s.Amount != nil:
			out = append(out, ledger.ShareInput{UserID: s.UserID, Value: *s.Amount})
		case s.Percentage != nil:
			out = append(out, ledger.ShareInput{UserID: s.UserID, Value: *s.Percentage})
		default:
			return nil, ledger.NewValidationError("splits", "each split needs an amount or a percentage")
		}
	}
	return out, nil
}

// SplitsToWire is the inverse of the request conversion, used by API clients.
func SplitsToWire(st models.SplitType, shares []ledger.ShareInput) []SplitInput {
	if len(shares) == 0 {
		return nil
	}
	out := make([]SplitInput, 0, len(shares))
	for _, s := range shares {
		v := s.Value
		in := SplitInput{UserID: s.UserID}
		if st == models.SplitPercentage {
			in.Percentage = &v
		} else {
			in.Amount = &v
		}
		out = append(out, in)
	}
	return out
}
