package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEmptySplit is returned when an expense has nobody to split it between.
var ErrEmptySplit = errors.New("expense must be split between at least one participant")

// CalculateShares computes how much each person owes for one expense.
// The amount is divided equally: share = amount / len(splitBetween).
// A name listed twice is charged twice; callers pass a set.
func CalculateShares(amount decimal.Decimal, splitBetween []string) (map[string]decimal.Decimal, error) {
	if len(splitBetween) == 0 {
		return nil, ErrEmptySplit
	}

	share := amount.Div(decimal.NewFromInt(int64(len(splitBetween))))
	shares := make(map[string]decimal.Decimal, len(splitBetween))
	for _, name := range splitBetween {
		shares[name] = shares[name].Add(share)
	}
	return shares, nil
}
