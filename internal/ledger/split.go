package ledger

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"GO2GETHER_BUDGET/internal/models"
)

// MinorUnit is the smallest representable amount (2 fractional digits).
var MinorUnit = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Share is one member's computed portion of an amount.
type Share struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// ShareInput is a caller-supplied share: an amount for custom splits or a
// percentage (0–100) for percentage splits.
type ShareInput struct {
	UserID uuid.UUID
	Value  decimal.Decimal
}

// ComputeSplits divides amount between members according to strategy.
//
// Every member receives exactly one share and the shares always sum to
// amount. Members are processed in ascending id order; for equal splits the
// remainder cents go one each to the first members in that order. Custom and
// percentage inputs must add up to amount within one minor unit; the result is
// then apportioned to whole cents by largest remainder.
//
// Neither members nor custom is modified.
func ComputeSplits(amount decimal.Decimal, strategy models.SplitType, members []uuid.UUID, custom []ShareInput) ([]Share, error) {
	ids := sortedUnique(members)
	if len(ids) == 0 {
		return nil, ErrNoMembers
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than 0")
	}
	cents := amount.Round(2).Shift(2).IntPart()

	switch strategy {
	case models.SplitEqual:
		return equalShares(cents, ids), nil
	case models.SplitCustom, models.SplitPercentage:
		weights, err := customWeights(amount, strategy, ids, custom)
		if err != nil {
			return nil, err
		}
		return apportion(cents, ids, weights), nil
	default:
		return nil, NewValidationError("split_type", fmt.Sprintf("unsupported split type %q", strategy))
	}
}

func equalShares(cents int64, ids []uuid.UUID) []Share {
	n := int64(len(ids))
	base := cents / n
	remainder := cents % n

	shares := make([]Share, 0, len(ids))
	for i, id := range ids {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares = append(shares, Share{UserID: id, Amount: decimal.New(c, -2)})
	}
	return shares
}

// customWeights turns caller input into raw (unrounded) amounts per member
// and checks them against amount.
func customWeights(amount decimal.Decimal, strategy models.SplitType, ids []uuid.UUID, custom []ShareInput) ([]decimal.Decimal, error) {
	if len(custom) == 0 {
		return nil, NewValidationError("splits", fmt.Sprintf("required for %s split", strategy))
	}

	index := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	weights := make([]decimal.Decimal, len(ids))
	seen := make(map[uuid.UUID]bool, len(custom))
	for _, in := range custom {
		i, ok := index[in.UserID]
		if !ok {
			return nil, NewValidationError("splits", fmt.Sprintf("user %s is not an active trip member", in.UserID))
		}
		if seen[in.UserID] {
			return nil, NewValidationError("splits", fmt.Sprintf("user %s listed more than once", in.UserID))
		}
		seen[in.UserID] = true

		if in.Value.IsNegative() {
			return nil, NewValidationError("splits", "shares cannot be negative")
		}
		w := in.Value
		if strategy == models.SplitPercentage {
			if in.Value.GreaterThan(hundred) {
				return nil, NewValidationError("splits", "percentage cannot exceed 100")
			}
			w = amount.Mul(in.Value).Div(hundred)
		}
		weights[i] = w
	}

	sum := decimal.Sum(decimal.Zero, weights...)
	if sum.Sub(amount).Abs().GreaterThan(MinorUnit) {
		return nil, NewValidationError("splits", fmt.Sprintf("shares add up to %s, expected %s", sum.StringFixed(2), amount.StringFixed(2)))
	}
	return weights, nil
}

// apportion distributes cents proportionally to weights using the largest
// remainder method; ties go to the lower id.
func apportion(cents int64, ids []uuid.UUID, weights []decimal.Decimal) []Share {
	total := decimal.Sum(decimal.Zero, weights...)
	if total.IsZero() {
		return equalShares(cents, ids)
	}
	c := decimal.NewFromInt(cents)

	floors := make([]int64, len(ids))
	rems := make([]decimal.Decimal, len(ids))
	var assigned int64
	for i, w := range weights {
		exact := c.Mul(w).Div(total)
		f := exact.Floor()
		floors[i] = f.IntPart()
		rems[i] = exact.Sub(f)
		assigned += floors[i]
	}

	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].GreaterThan(rems[order[b]])
	})
	for k := int64(0); k < cents-assigned; k++ {
		floors[order[k%int64(len(order))]]++
	}

	shares := make([]Share, 0, len(ids))
	for i, id := range ids {
		shares = append(shares, Share{UserID: id, Amount: decimal.New(floors[i], -2)})
	}
	return shares
}

func sortedUnique(members []uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(members))
	seen := make(map[uuid.UUID]bool, len(members))
	for _, id := range members {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// ToSplits stamps computed shares with ids for storage under itemID.
func ToSplits(itemID uuid.UUID, shares []Share) []models.Split {
	splits := make([]models.Split, 0, len(shares))
	for _, s := range shares {
		splits = append(splits, models.Split{
			ID:     uuid.New(),
			ItemID: itemID,
			UserID: s.UserID,
			Amount: s.Amount,
		})
	}
	return splits
}
