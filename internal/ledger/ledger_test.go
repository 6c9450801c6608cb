package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/arcwise/internal/calculator"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/storage/memory"
)

func newTestLedger(t *testing.T, names ...string) *Ledger {
	t.Helper()
	roster, err := models.NewRoster(names)
	require.NoError(t, err)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return New(roster, memory.New(), WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
}

func TestAddExpense_Validation(t *testing.T) {
	tests := []struct {
		name      string
		desc      string
		amount    string
		paidBy    string
		split     []string
		wantField string
		wantErr   error
	}{
		{name: "blank description", desc: "  ", amount: "10", paidBy: "A", split: []string{"A"}, wantField: "description"},
		{name: "zero amount", desc: "x", amount: "0", paidBy: "A", split: []string{"A"}, wantField: "amount"},
		{name: "negative amount", desc: "x", amount: "-5", paidBy: "A", split: []string{"A"}, wantField: "amount"},
		{name: "missing payer", desc: "x", amount: "10", paidBy: "", split: []string{"A"}, wantField: "paid_by"},
		{name: "payer outside roster", desc: "x", amount: "10", paidBy: "Z", split: []string{"A"}, wantField: "paid_by", wantErr: models.ErrUnknownParticipant},
		{name: "empty split", desc: "x", amount: "10", paidBy: "A", split: nil, wantField: "split_between", wantErr: calculator.ErrEmptySplit},
		{name: "only blank split entries", desc: "x", amount: "10", paidBy: "A", split: []string{" ", ""}, wantField: "split_between", wantErr: calculator.ErrEmptySplit},
		{name: "split outside roster", desc: "x", amount: "10", paidBy: "A", split: []string{"A", "Z"}, wantField: "split_between", wantErr: models.ErrUnknownParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, "A", "B")
			_, err := l.AddExpense(context.Background(), tt.desc, decimal.RequireFromString(tt.amount), tt.paidBy, tt.split)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			expenses, err := l.ListExpenses(context.Background())
			require.NoError(t, err)
			assert.Empty(t, expenses, "rejected expense must not be stored")
		})
	}
}

func TestAddExpense_AssignsIDAndDedupesSplit(t *testing.T) {
	l := newTestLedger(t, "A", "B", "C")
	ctx := context.Background()

	e, err := l.AddExpense(ctx, " Dinner ", decimal.NewFromInt(90), "A", []string{"B", "A", "B", "C"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Dinner", e.Description)
	assert.Equal(t, []string{"B", "A", "C"}, e.SplitBetween)

	blanks, err := l.AddExpense(ctx, "Snacks", decimal.NewFromInt(4), "A", []string{"A", " ", "", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, blanks.SplitBetween)
	assert.False(t, e.CreatedAt.IsZero())

	other, err := l.AddExpense(ctx, "Taxi", decimal.NewFromInt(10), "B", []string{"B"})
	require.NoError(t, err)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestListExpenses_NewestFirst(t *testing.T) {
	l := newTestLedger(t, "A", "B")
	ctx := context.Background()

	first, err := l.AddExpense(ctx, "first", decimal.NewFromInt(1), "A", []string{"B"})
	require.NoError(t, err)
	second, err := l.AddExpense(ctx, "second", decimal.NewFromInt(2), "B", []string{"A"})
	require.NoError(t, err)

	got, err := l.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}

func TestBalancesAndTransfers(t *testing.T) {
	l := newTestLedger(t, "A", "B", "C")
	ctx := context.Background()

	_, err := l.AddExpense(ctx, "Dinner", decimal.NewFromInt(90), "A", []string{"A", "B", "C"})
	require.NoError(t, err)

	balances, err := l.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.True(t, balances[0].NetBalance.Equal(decimal.NewFromInt(60)))
	assert.True(t, balances[1].NetBalance.Equal(decimal.NewFromInt(-30)))

	transfers, err := l.Transfers(ctx)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "B", transfers[0].From)
	assert.Equal(t, "C", transfers[1].From)
}

func TestOutstandingTransfers_NetsSettlements(t *testing.T) {
	roster, err := models.NewRoster([]string{"A", "B"})
	require.NoError(t, err)
	store := memory.New()
	l := New(roster, store)
	ctx := context.Background()

	_, err = l.AddExpense(ctx, "Taxi", decimal.NewFromInt(40), "A", []string{"B"})
	require.NoError(t, err)
	require.NoError(t, store.AppendSettlement(ctx, &models.Settlement{
		ID: "s1", From: "B", To: "A", Amount: decimal.NewFromInt(15),
	}))

	outstanding, err := l.OutstandingTransfers(ctx)
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.True(t, outstanding[0].Amount.Equal(decimal.NewFromInt(25)))

	raw, err := l.Transfers(ctx)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.True(t, raw[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestRoster_ReturnsCopy(t *testing.T) {
	l := newTestLedger(t, "A", "B")
	names := l.Roster()
	names[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, l.Roster())
}
