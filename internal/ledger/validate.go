package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"GO2GETHER_BUDGET/internal/models"
)

const (
	MaxTitleLength    = 100
	MaxCategoryLength = 50
)

// MaxAmount is the largest accepted item amount.
var MaxAmount = decimal.RequireFromString("999999.99")

// EntryInput is a create intent for a budget item.
type EntryInput struct {
	Title       string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description *string
	PaidBy      *uuid.UUID
	SplitType   models.SplitType
	IsPaid      bool
	Shares      []ShareInput
}

// EntryPatch is a partial update; nil fields are left unchanged.
type EntryPatch struct {
	Title       *string
	Amount      *decimal.Decimal
	Currency    *string
	Category    *string
	Description *string
	PaidBy      *uuid.UUID
	SplitType   *models.SplitType
	IsPaid      *bool
	Shares      []ShareInput
}

// Normalize trims and canonicalises the input in place and validates it.
// Amounts are rounded to two fractional digits before range checks, which
// matches the numeric(10,2) column they end up in.
func (in *EntryInput) Normalize() error {
	ve := &ValidationError{}

	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.SplitType = models.SplitType(strings.ToLower(strings.TrimSpace(string(in.SplitType))))
	if in.SplitType == "" {
		in.SplitType = models.SplitEqual
	}
	in.Amount = in.Amount.Round(2)

	checkTitle(ve, in.Title)
	checkAmount(ve, in.Amount)
	checkCurrency(ve, in.Currency)
	checkCategory(ve, in.Category)
	checkSplitType(ve, in.SplitType, in.Shares)

	return ve.orNil()
}

// Normalize validates only the supplied fields.
func (p *EntryPatch) Normalize() error {
	ve := &ValidationError{}

	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
		checkTitle(ve, t)
	}
	if p.Amount != nil {
		a := p.Amount.Round(2)
		p.Amount = &a
		checkAmount(ve, a)
	}
	if p.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*p.Currency))
		p.Currency = &c
		checkCurrency(ve, c)
	}
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		p.Category = &c
		checkCategory(ve, c)
	}
	if p.SplitType != nil {
		st := models.SplitType(strings.ToLower(strings.TrimSpace(string(*p.SplitType))))
		p.SplitType = &st
		checkSplitType(ve, st, p.Shares)
	}

	return ve.orNil()
}

// CheckAgainst validates the patch against the stored item. Shares are only
// meaningful when the resulting split type is custom or percentage.
func (p EntryPatch) CheckAgainst(item models.BudgetItem) error {
	st := item.SplitType
	if p.SplitType != nil {
		st = *p.SplitType
	}
	if len(p.Shares) > 0 && st == models.SplitEqual {
		return NewValidationError("splits", "not accepted for equal split")
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Currency == nil && p.Category == nil &&
		p.Description == nil && p.PaidBy == nil && p.SplitType == nil && p.IsPaid == nil &&
		len(p.Shares) == 0
}

// RegeneratesSplits reports whether applying p to item requires new splits.
func (p EntryPatch) RegeneratesSplits(item models.BudgetItem) bool {
	if p.Amount != nil && !p.Amount.Equal(item.Amount) {
		return true
	}
	if p.SplitType != nil && *p.SplitType != item.SplitType {
		return true
	}
	return len(p.Shares) > 0 && item.SplitType != models.SplitEqual
}

// Apply returns a copy of item with the patch merged in and UpdatedAt set to
// now, or just past the previous value when the clock has not advanced.
func (p EntryPatch) Apply(item models.BudgetItem, now time.Time) models.BudgetItem {
	out := item
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Currency != nil {
		out.Currency = *p.Currency
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	if p.PaidBy != nil {
		id := *p.PaidBy
		out.PaidBy = &id
	}
	if p.SplitType != nil {
		out.SplitType = *p.SplitType
	}
	if p.IsPaid != nil {
		out.IsPaid = *p.IsPaid
	}

	if !now.After(item.UpdatedAt) {
		now = item.UpdatedAt.Add(time.Microsecond)
	}
	out.UpdatedAt = now
	return out
}

func checkTitle(ve *ValidationError, title string) {
	switch {
	case title == "":
		ve.Add("title", "is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		ve.Add("title", "must be at most 100 characters")
	}
}

func checkAmount(ve *ValidationError, amount decimal.Decimal) {
	switch {
	case !amount.IsPositive():
		ve.Add("amount", "must be greater than 0")
	case amount.GreaterThan(MaxAmount):
		ve.Add("amount", "must not exceed 999999.99")
	}
}

func checkCurrency(ve *ValidationError, currency string) {
	if len(currency) != 3 {
		ve.Add("currency", "must be a 3-letter code")
		return
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			ve.Add("currency", "must be a 3-letter code")
			return
		}
	}
}

// ValidCurrency reports whether code is a 3-letter upper-case currency code.
func ValidCurrency(code string) bool {
	ve := &ValidationError{}
	checkCurrency(ve, code)
	return ve.orNil() == nil
}

func checkCategory(ve *ValidationError, category string) {
	switch {
	case category == "":
		ve.Add("category", "is required")
	case utf8.RuneCountInString(category) > MaxCategoryLength:
		ve.Add("category", "must be at most 50 characters")
	}
}

func checkSplitType(ve *ValidationError, st models.SplitType, shares []ShareInput) {
	if !st.Valid() {
		ve.Add("split_type", "must be equal, custom, or percentage")
		return
	}
	switch {
	case st == models.SplitEqual && len(shares) > 0:
		ve.Add("splits", "not accepted for equal split")
	case st != models.SplitEqual && len(shares) == 0:
		ve.Add("splits", "required for "+string(st)+" split")
	}
}
