package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arcwise/internal/calculator"
	"github.com/mmynk/arcwise/internal/ledger"
	"github.com/mmynk/arcwise/internal/middleware"
	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
	"github.com/mmynk/arcwise/pkg/api/arcwisev1/arcwisev1connect"
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	arcwisev1connect.UnimplementedLedgerServiceHandler
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewLedgerService creates a new LedgerService over the given ledger.
func NewLedgerService(l *ledger.Ledger, logger *slog.Logger) *LedgerService {
	return &LedgerService{ledger: l, logger: logger}
}

// GetRoster returns the participants in roster order.
func (s *LedgerService) GetRoster(ctx context.Context, req *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	return connect.NewResponse(&v1.GetRosterResponse{Participants: s.ledger.Roster()}), nil
}

// AddExpense validates and appends an expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[v1.AddExpenseRequest]) (*connect.Response[v1.AddExpenseResponse], error) {
	s.logger.Info("AddExpense request received",
		"participant", middleware.GetParticipant(ctx),
		"paid_by", req.Msg.PaidBy,
		"split_count", len(req.Msg.SplitBetween),
	)

	expense, err := s.ledger.AddExpense(ctx, req.Msg.Description, req.Msg.Amount, req.Msg.PaidBy, req.Msg.SplitBetween)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&v1.AddExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns every expense, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[v1.ListExpensesRequest]) (*connect.Response[v1.ListExpensesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		s.logger.Error("ListExpenses failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*v1.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&v1.ListExpensesResponse{Expenses: out}), nil
}

// ComputeBalances returns net balances and the transfers that settle the
// raw expense list. Recorded settlements are not taken into account.
func (s *LedgerService) ComputeBalances(ctx context.Context, req *connect.Request[v1.ComputeBalancesRequest]) (*connect.Response[v1.ComputeBalancesResponse], error) {
	balances, err := s.ledger.Balances(ctx)
	if err != nil {
		s.logger.Error("ComputeBalances failed", "error", err)
		return nil, toConnectError(err)
	}
	transfers := calculator.SimplifyDebts(balances)

	s.logger.Debug("Balances computed", "members", len(balances), "transfers", len(transfers))
	return connect.NewResponse(&v1.ComputeBalancesResponse{
		Balances:  balancesToAPI(balances),
		Transfers: transfersToAPI(transfers),
	}), nil
}

// ListOutstandingTransfers returns what is still owed after recorded
// settlements are netted out.
func (s *LedgerService) ListOutstandingTransfers(ctx context.Context, req *connect.Request[v1.ListOutstandingTransfersRequest]) (*connect.Response[v1.ListOutstandingTransfersResponse], error) {
	transfers, err := s.ledger.OutstandingTransfers(ctx)
	if err != nil {
		s.logger.Error("ListOutstandingTransfers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&v1.ListOutstandingTransfersResponse{Transfers: transfersToAPI(transfers)}), nil
}
