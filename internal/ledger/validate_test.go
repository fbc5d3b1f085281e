package ledger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/models"
)

func validInput() EntryInput {
	return EntryInput{
		Title:     " Dinner ",
		Amount:    decimal.RequireFromString("90"),
		Currency:  "usd",
		Category:  "Food",
		SplitType: "",
	}
}

func TestEntryInput_Normalize_OK(t *testing.T) {
	in := validInput()
	require.NoError(t, in.Normalize())

	assert.Equal(t, "Dinner", in.Title)
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, models.SplitEqual, in.SplitType)
}

func TestEntryInput_Normalize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*EntryInput)
		field string
	}{
		{"empty title", func(in *EntryInput) { in.Title = "  " }, "title"},
		{"long title", func(in *EntryInput) { in.Title = strings.Repeat("x", 101) }, "title"},
		{"zero amount", func(in *EntryInput) { in.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(in *EntryInput) { in.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"rounds to zero", func(in *EntryInput) { in.Amount = decimal.RequireFromString("0.004") }, "amount"},
		{"too large", func(in *EntryInput) { in.Amount = decimal.RequireFromString("1000000") }, "amount"},
		{"currency length", func(in *EntryInput) { in.Currency = "US" }, "currency"},
		{"currency digits", func(in *EntryInput) { in.Currency = "U5D" }, "currency"},
		{"category", func(in *EntryInput) { in.Category = "" }, "category"},
		{"long category", func(in *EntryInput) { in.Category = strings.Repeat("x", 51) }, "category"},
		{"equal with shares", func(in *EntryInput) {
			in.Shares = []ShareInput{{UserID: uuid.New(), Value: decimal.NewFromInt(1)}}
		}, "splits"},
		{"split type", func(in *EntryInput) { in.SplitType = "shares" }, "split_type"},
		{"custom without shares", func(in *EntryInput) { in.SplitType = models.SplitCustom }, "splits"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)

			err := in.Normalize()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestEntryInput_Normalize_BoundaryAmounts(t *testing.T) {
	for _, a := range []string{"0.01", "999999.99"} {
		in := validInput()
		in.Amount = decimal.RequireFromString(a)
		assert.NoError(t, in.Normalize(), a)
	}
	in := validInput()
	in.Title = strings.Repeat("é", 100)
	assert.NoError(t, in.Normalize())

	in = validInput()
	in.Category = strings.Repeat("ü", 50)
	assert.NoError(t, in.Normalize())
}

func TestEntryPatch_CheckAgainst(t *testing.T) {
	shares := []ShareInput{{UserID: uuid.New(), Value: decimal.NewFromInt(90)}}
	equal := models.BudgetItem{SplitType: models.SplitEqual}
	custom := models.BudgetItem{SplitType: models.SplitCustom}
	toCustom := models.SplitCustom
	toEqual := models.SplitEqual

	err := EntryPatch{Shares: shares}.CheckAgainst(equal)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "splits")

	assert.NoError(t, EntryPatch{Shares: shares}.CheckAgainst(custom))
	assert.NoError(t, EntryPatch{Shares: shares, SplitType: &toCustom}.CheckAgainst(equal))
	assert.Error(t, EntryPatch{Shares: shares, SplitType: &toEqual}.CheckAgainst(custom))
	assert.NoError(t, EntryPatch{SplitType: &toEqual}.CheckAgainst(custom))
}

func TestEntryPatch_NormalizeOnlySupplied(t *testing.T) {
	assert.NoError(t, (&EntryPatch{}).Normalize())

	bad := "X"
	err := (&EntryPatch{Currency: &bad}).Normalize()
	assert.True(t, IsValidation(err))

	title := "  Taxi "
	p := EntryPatch{Title: &title}
	require.NoError(t, p.Normalize())
	assert.Equal(t, "Taxi", *p.Title)
}

func TestEntryPatch_Apply(t *testing.T) {
	updated := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := models.BudgetItem{
		ID:        uuid.New(),
		Title:     "Dinner",
		Amount:    decimal.RequireFromString("90"),
		SplitType: models.SplitEqual,
		UpdatedAt: updated,
	}
	paid := true
	p := EntryPatch{IsPaid: &paid}

	out := p.Apply(base, updated.Add(time.Hour))
	assert.True(t, out.IsPaid)
	assert.Equal(t, "Dinner", out.Title)
	assert.False(t, base.IsPaid, "input is not modified")
	assert.True(t, out.UpdatedAt.After(base.UpdatedAt))

	stale := p.Apply(base, updated.Add(-time.Hour))
	assert.True(t, stale.UpdatedAt.After(base.UpdatedAt), "updated_at must advance even with a skewed clock")
}

func TestEntryPatch_RegeneratesSplits(t *testing.T) {
	base := models.BudgetItem{Amount: decimal.RequireFromString("90"), SplitType: models.SplitEqual}

	same := decimal.RequireFromString("90.00")
	other := decimal.RequireFromString("91")
	pct := models.SplitPercentage
	paid := true

	assert.False(t, EntryPatch{Amount: &same}.RegeneratesSplits(base))
	assert.True(t, EntryPatch{Amount: &other}.RegeneratesSplits(base))
	assert.True(t, EntryPatch{SplitType: &pct}.RegeneratesSplits(base))
	assert.False(t, EntryPatch{IsPaid: &paid}.RegeneratesSplits(base))
}

func TestValidationError_Message(t *testing.T) {
	ve := NewValidationError("title", "is required")
	ve.Add("amount", "must be greater than 0")
	ve.Add("title", "ignored")

	assert.Equal(t, "validation error: amount: must be greater than 0; title: is required", ve.Error())
}
