// Package storage provides abstractions for ledger data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/arcwise/internal/models"
)

// ErrDuplicateID is returned when a record with the same ID already exists.
var ErrDuplicateID = errors.New("record with this id already exists")

// Store defines the interface for ledger storage operations.
// Both collections are append-only: records are never updated or deleted.
// This abstraction allows swapping storage backends (memory, SQLite)
// without changing the ledger or settlement code.
type Store interface {
	// AppendExpense persists a new expense. The expense ID must be set.
	AppendExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns every expense, newest first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// AppendSettlement persists a new settlement. The settlement ID must be set.
	AppendSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns every settlement, newest first.
	ListSettlements(ctx context.Context) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
