// Package memory provides an in-process implementation of storage.Store.
// Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps expenses and settlements in insertion order.
type Store struct {
	mu          sync.RWMutex
	expenses    []*models.Expense
	settlements []*models.Settlement
	ids         map[string]struct{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// AppendExpense stores a copy of expense.
func (s *Store) AppendExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		return fmt.Errorf("failed to append expense: missing id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[expense.ID]; ok {
		return fmt.Errorf("failed to append expense %s: %w", expense.ID, storage.ErrDuplicateID)
	}
	s.ids[expense.ID] = struct{}{}
	s.expenses = append(s.expenses, cloneExpense(expense))
	return nil
}

// ListExpenses returns copies of all expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Expense, 0, len(s.expenses))
	for i := len(s.expenses) - 1; i >= 0; i-- {
		out = append(out, cloneExpense(s.expenses[i]))
	}
	return out, nil
}

// AppendSettlement stores a copy of settlement.
func (s *Store) AppendSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		return fmt.Errorf("failed to append settlement: missing id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[settlement.ID]; ok {
		return fmt.Errorf("failed to append settlement %s: %w", settlement.ID, storage.ErrDuplicateID)
	}
	s.ids[settlement.ID] = struct{}{}
	cp := *settlement
	s.settlements = append(s.settlements, &cp)
	return nil
}

// ListSettlements returns copies of all settlements, newest first.
func (s *Store) ListSettlements(ctx context.Context) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Settlement, 0, len(s.settlements))
	for i := len(s.settlements) - 1; i >= 0; i-- {
		cp := *s.settlements[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cloneExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.SplitBetween = append([]string(nil), e.SplitBetween...)
	return &cp
}
