package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance (one cent) below which a balance is treated as
// settled and a transfer is not worth emitting.
var Epsilon = decimal.New(1, -2)

// Expense records one participant paying an amount on behalf of others.
// Expenses are append-only: once created they are never changed or removed.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the free-text label (e.g., "Groceries", "Taxi").
	Description string

	// Amount is the positive total that PaidBy paid.
	Amount decimal.Decimal

	// PaidBy is the roster name of the person who paid.
	PaidBy string

	// SplitBetween is the set of roster names sharing the cost equally.
	// PaidBy may or may not be included.
	SplitBetween []string

	// CreatedAt is when the expense was logged.
	CreatedAt time.Time
}

// Transfer is a settlement instruction produced by the balance calculator:
// From should pay To the given Amount.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}
