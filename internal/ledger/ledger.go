// Package ledger owns the roster and the append-only expense list, and runs
// the balance calculator over them.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/arcwise/internal/calculator"
	"github.com/mmynk/arcwise/internal/metrics"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/storage"
)

// ValidationError describes why an expense was rejected. Nothing is stored
// when AddExpense returns one.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Ledger is safe for concurrent use; the store serializes appends.
type Ledger struct {
	roster  *models.Roster
	store   storage.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMetrics counts added expenses on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over roster backed by store.
func New(roster *models.Roster, store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		roster: roster,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Roster returns the participant names in roster order.
func (l *Ledger) Roster() []string {
	return l.roster.Names()
}

// Members returns the underlying roster.
func (l *Ledger) Members() *models.Roster {
	return l.roster
}

// AddExpense validates and appends a new expense. Duplicate names in
// splitBetween are collapsed, keeping the first occurrence.
func (l *Ledger) AddExpense(ctx context.Context, description string, amount decimal.Decimal, paidBy string, splitBetween []string) (*models.Expense, error) {
	expense, err := l.validate(description, amount, paidBy, splitBetween)
	if err != nil {
		slog.Debug("Expense rejected", "error", err)
		return nil, err
	}

	expense.ID = uuid.New().String()
	expense.CreatedAt = l.now().UTC()

	if err := l.store.AppendExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to append expense: %w", err)
	}
	l.metrics.ExpenseAdded()

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"paid_by", expense.PaidBy,
		"amount", expense.Amount.String(),
		"split_count", len(expense.SplitBetween),
	)
	return expense, nil
}

func (l *Ledger) validate(description string, amount decimal.Decimal, paidBy string, splitBetween []string) (*models.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "must not be empty"}
	}
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}

	paidBy = strings.TrimSpace(paidBy)
	if paidBy == "" {
		return nil, &ValidationError{Field: "paid_by", Message: "must not be empty"}
	}
	if err := l.roster.Check(paidBy); err != nil {
		return nil, &ValidationError{Field: "paid_by", Message: err.Error(), Err: err}
	}

	split := make([]string, 0, len(splitBetween))
	seen := make(map[string]bool, len(splitBetween))
	for _, raw := range splitBetween {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		if err := l.roster.Check(name); err != nil {
			return nil, &ValidationError{Field: "split_between", Message: err.Error(), Err: err}
		}
		seen[name] = true
		split = append(split, name)
	}
	if len(split) == 0 {
		return nil, &ValidationError{Field: "split_between", Message: "must name at least one participant", Err: calculator.ErrEmptySplit}
	}

	return &models.Expense{
		Description:  description,
		Amount:       amount,
		PaidBy:       paidBy,
		SplitBetween: split,
	}, nil
}

// ListExpenses returns all expenses, newest first.
func (l *Ledger) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// ListSettlements returns all recorded settlements, newest first.
func (l *Ledger) ListSettlements(ctx context.Context) ([]*models.Settlement, error) {
	settlements, err := l.store.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// Balances computes every member's net balance from the full expense list.
func (l *Ledger) Balances(ctx context.Context) ([]calculator.MemberBalance, error) {
	expenses, err := l.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.NetBalances(l.roster, expenses)
}

// Transfers computes the transfers that settle the expense list, ignoring
// any recorded settlements.
func (l *Ledger) Transfers(ctx context.Context) ([]models.Transfer, error) {
	expenses, err := l.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.CalculateTransfers(l.roster, expenses)
}

// OutstandingTransfers computes what is still owed once recorded settlements
// are netted out.
func (l *Ledger) OutstandingTransfers(ctx context.Context) ([]models.Transfer, error) {
	expenses, err := l.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	settlements, err := l.ListSettlements(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.CalculateTransfersWithSettlements(l.roster, expenses, settlements)
}
