package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement records a transfer that the payment gateway reported as
// completed. Settlements are append-only.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// From is the participant who paid (debtor settling up).
	From string

	// To is the participant who received payment (creditor being paid).
	To string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Chain is the opaque chain label reported by the gateway.
	Chain string

	// TransactionReference is the gateway's reference for the payment
	// (e.g., a transaction hash). It is not verified.
	TransactionReference string

	// CreatedAt is when the settlement was recorded.
	CreatedAt time.Time
}
