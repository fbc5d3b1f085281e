package ledger

import (
	"github.com/shopspring/decimal"

	"GO2GETHER_BUDGET/internal/models"
)

// DefaultCurrency is used for the summary of a trip without items.
const DefaultCurrency = "USD"

// Summarize aggregates items. Items are expected newest-first, so the first
// item's currency is the most recent one. Splits are not consulted.
func Summarize(items []models.BudgetItem, memberCount int, defaultCurrency string) models.Summary {
	total := decimal.Zero
	paid := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
		if it.IsPaid {
			paid = paid.Add(it.Amount)
		}
	}

	perPerson := decimal.Zero
	if memberCount > 0 {
		perPerson = total.Div(decimal.NewFromInt(int64(memberCount))).Round(2)
	}

	currency := defaultCurrency
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(items) > 0 && items[0].Currency != "" {
		currency = items[0].Currency
	}

	return models.Summary{
		Total:       total,
		Paid:        paid,
		Unpaid:      total.Sub(paid),
		PerPerson:   perPerson,
		MemberCount: memberCount,
		Currency:    currency,
	}
}
