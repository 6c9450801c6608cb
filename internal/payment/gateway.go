// Package payment is the boundary to the external payments collaborator.
// Wallet custody, signing and chain routing all live behind Gateway.
package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Request asks the gateway to move Amount from From to the wallet at
// RecipientAddress. Chain is an opaque label; empty lets the gateway choose.
type Request struct {
	From             string
	To               string
	RecipientAddress string
	Amount           decimal.Decimal
	Chain            string
}

// Result is either Success or Failure.
type Result interface {
	isResult()
}

// Success means the gateway executed the payment.
type Success struct {
	TransactionReference string
	Chain                string
}

// Failure means the gateway answered and declined the payment.
type Failure struct {
	Reason string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Gateway executes payments. A non-nil error means the gateway could not be
// reached or gave an unusable answer; a declined payment is a Failure result.
type Gateway interface {
	Pay(ctx context.Context, req Request) (Result, error)
}

// AddressBook maps participant names to wallet addresses.
type AddressBook interface {
	Lookup(name string) (address string, ok bool)
}

// StaticAddressBook is an AddressBook fixed at startup.
type StaticAddressBook map[string]string

// Lookup returns the non-blank address registered for name.
func (b StaticAddressBook) Lookup(name string) (string, bool) {
	addr, ok := b[name]
	if !ok || strings.TrimSpace(addr) == "" {
		return "", false
	}
	return addr, true
}
