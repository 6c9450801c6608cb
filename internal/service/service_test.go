package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/arcwise/internal/auth"
	"github.com/mmynk/arcwise/internal/ledger"
	"github.com/mmynk/arcwise/internal/middleware"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/payment"
	"github.com/mmynk/arcwise/internal/settlement"
	"github.com/mmynk/arcwise/internal/storage/memory"
	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
	"github.com/mmynk/arcwise/pkg/api/arcwisev1/arcwisev1connect"
)

const testPassphrase = "correct-horse"

// stubGateway pays everyone except the recipients listed in decline.
type stubGateway struct {
	mu      sync.Mutex
	decline map[string]string
	calls   []payment.Request
}

func (g *stubGateway) Pay(ctx context.Context, req payment.Request) (payment.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if reason, ok := g.decline[req.To]; ok {
		return payment.Failure{Reason: reason}, nil
	}
	return payment.Success{TransactionReference: fmt.Sprintf("0xtx%d", len(g.calls)), Chain: req.Chain}, nil
}

type testEnv struct {
	server     *httptest.Server
	ledger     arcwisev1connect.LedgerServiceClient
	settlement arcwisev1connect.SettlementServiceClient
	session    arcwisev1connect.SessionServiceClient
	gateway    *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	roster, err := models.NewRoster([]string{"A", "B", "C"})
	require.NoError(t, err)

	store := memory.New()
	l := ledger.New(roster, store)
	recorder := settlement.NewRecorder(store, roster, nil, nil, logger)

	gateway := &stubGateway{decline: map[string]string{}}
	addresses := payment.StaticAddressBook{"A": "0xaaa", "B": "0xbbb"}
	settler, err := settlement.NewSettler(gateway, addresses, recorder, settlement.SettlerConfig{PoolSize: 2, DefaultChain: "base"}, nil, logger)
	require.NoError(t, err)
	t.Cleanup(settler.Shutdown)

	authenticator, err := auth.NewPassphraseAuthenticator(roster, testPassphrase)
	require.NoError(t, err)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	mux := http.NewServeMux()
	mux.Handle(arcwisev1connect.NewLedgerServiceHandler(
		NewLedgerService(l, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))
	mux.Handle(arcwisev1connect.NewSettlementServiceHandler(
		NewSettlementService(l, settler, recorder, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))
	mux.Handle(arcwisev1connect.NewSessionServiceHandler(
		NewSessionService(authenticator, jwtManager, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		server:     server,
		ledger:     arcwisev1connect.NewLedgerServiceClient(server.Client(), server.URL),
		settlement: arcwisev1connect.NewSettlementServiceClient(server.Client(), server.URL),
		session:    arcwisev1connect.NewSessionServiceClient(server.Client(), server.URL),
		gateway:    gateway,
	}
}

func (e *testEnv) join(t *testing.T, name string) string {
	t.Helper()
	resp, err := e.session.Join(context.Background(), connect.NewRequest(&v1.JoinRequest{Name: name, Passphrase: testPassphrase}))
	require.NoError(t, err)
	return resp.Msg.Token
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), err.Error())
}

func addExpense(t *testing.T, env *testEnv, token, desc, amount, paidBy string, split ...string) *v1.Expense {
	t.Helper()
	resp, err := env.ledger.AddExpense(context.Background(), withToken(&v1.AddExpenseRequest{
		Description:  desc,
		Amount:       decimal.RequireFromString(amount),
		PaidBy:       paidBy,
		SplitBetween: split,
	}, token))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func TestSessionService_Join(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := env.session.Join(ctx, connect.NewRequest(&v1.JoinRequest{Name: " B ", Passphrase: testPassphrase}))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Msg.Token)
		assert.Equal(t, "B", resp.Msg.Participant)
		assert.True(t, resp.Msg.ExpiresAt.Time().After(time.Now()))
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := env.session.Join(ctx, connect.NewRequest(&v1.JoinRequest{Name: "B", Passphrase: "not-the-one"}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("not on roster", func(t *testing.T) {
		_, err := env.session.Join(ctx, connect.NewRequest(&v1.JoinRequest{Name: "Z", Passphrase: testPassphrase}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.session.Join(ctx, connect.NewRequest(&v1.JoinRequest{Name: "B"}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})
}

func TestSessionService_WhoAmI(t *testing.T) {
	env := newTestEnv(t)
	token := env.join(t, "C")

	resp, err := env.session.WhoAmI(context.Background(), withToken(&v1.WhoAmIRequest{}, token))
	require.NoError(t, err)
	assert.Equal(t, "C", resp.Msg.Participant)

	_, err = env.session.WhoAmI(context.Background(), connect.NewRequest(&v1.WhoAmIRequest{}))
	assertCode(t, connect.CodeUnauthenticated, err)

	_, err = env.session.WhoAmI(context.Background(), withToken(&v1.WhoAmIRequest{}, "garbage"))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestLedgerService_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.GetRoster(context.Background(), connect.NewRequest(&v1.GetRosterRequest{}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestLedgerService_AddExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.join(t, "A")

	tests := []struct {
		name string
		req  *v1.AddExpenseRequest
	}{
		{"blank description", &v1.AddExpenseRequest{Description: " ", Amount: decimal.NewFromInt(10), PaidBy: "A", SplitBetween: []string{"A"}}},
		{"zero amount", &v1.AddExpenseRequest{Description: "x", Amount: decimal.Zero, PaidBy: "A", SplitBetween: []string{"A"}}},
		{"unknown payer", &v1.AddExpenseRequest{Description: "x", Amount: decimal.NewFromInt(10), PaidBy: "Z", SplitBetween: []string{"A"}}},
		{"unknown split member", &v1.AddExpenseRequest{Description: "x", Amount: decimal.NewFromInt(10), PaidBy: "A", SplitBetween: []string{"A", "Z"}}},
		{"empty split", &v1.AddExpenseRequest{Description: "x", Amount: decimal.NewFromInt(10), PaidBy: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.AddExpense(context.Background(), withToken(tt.req, token))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}

	resp, err := env.ledger.ListExpenses(context.Background(), withToken(&v1.ListExpensesRequest{}, token))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Expenses)
}

func TestLedgerService_Flow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.join(t, "A")

	roster, err := env.ledger.GetRoster(ctx, withToken(&v1.GetRosterRequest{}, token))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, roster.Msg.Participants)

	first := addExpense(t, env, token, "Dinner", "90", "A", "A", "B", "C")
	assert.NotEmpty(t, first.Id)
	assert.False(t, first.CreatedAt.Time().IsZero())
	second := addExpense(t, env, token, "Taxi", "12.50", "B", "B", "C", "B")
	assert.Equal(t, []string{"B", "C"}, second.SplitBetween)

	list, err := env.ledger.ListExpenses(ctx, withToken(&v1.ListExpensesRequest{}, token))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 2)
	assert.Equal(t, second.Id, list.Msg.Expenses[0].Id)
	assert.Equal(t, first.Id, list.Msg.Expenses[1].Id)

	balances, err := env.ledger.ComputeBalances(ctx, withToken(&v1.ComputeBalancesRequest{}, token))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Balances, 3)

	want := map[string]string{"A": "60", "B": "-23.75", "C": "-36.25"}
	for _, b := range balances.Msg.Balances {
		assert.True(t, decimal.RequireFromString(want[b.Name]).Equal(b.NetBalance), "%s: %s", b.Name, b.NetBalance)
	}

	// C owes the most, so C is matched with A first.
	require.Len(t, balances.Msg.Transfers, 2)
	assert.Equal(t, "C", balances.Msg.Transfers[0].From)
	assert.Equal(t, "A", balances.Msg.Transfers[0].To)
	assert.True(t, decimal.RequireFromString("36.25").Equal(balances.Msg.Transfers[0].Amount))
	assert.Equal(t, "B", balances.Msg.Transfers[1].From)
	assert.True(t, decimal.RequireFromString("23.75").Equal(balances.Msg.Transfers[1].Amount))
}

func TestSettlementService_SettleTransfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokenA := env.join(t, "A")
	tokenB := env.join(t, "B")

	addExpense(t, env, tokenA, "Dinner", "90", "A", "A", "B", "C")

	t.Run("only the debtor can settle", func(t *testing.T) {
		_, err := env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "B", To: "A"}, tokenA))
		assertCode(t, connect.CodePermissionDenied, err)
	})

	t.Run("no outstanding debt", func(t *testing.T) {
		_, err := env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "B", To: "C"}, tokenB))
		assertCode(t, connect.CodeFailedPrecondition, err)
	})

	t.Run("amount above outstanding", func(t *testing.T) {
		_, err := env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "B", To: "A", Amount: decimal.NewFromInt(31)}, tokenB))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("partial then full", func(t *testing.T) {
		resp, err := env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "B", To: "A", Amount: decimal.NewFromInt(10)}, tokenB))
		require.NoError(t, err)
		assert.Equal(t, "base", resp.Msg.Settlement.Chain)
		assert.NotEmpty(t, resp.Msg.Settlement.TransactionReference)

		resp, err = env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "B", To: "A", Chain: "solana"}, tokenB))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20).Equal(resp.Msg.Settlement.Amount))
		assert.Equal(t, "solana", resp.Msg.Settlement.Chain)

		outstanding, err := env.ledger.ListOutstandingTransfers(ctx, withToken(&v1.ListOutstandingTransfersRequest{}, tokenB))
		require.NoError(t, err)
		require.Len(t, outstanding.Msg.Transfers, 1)
		assert.Equal(t, "C", outstanding.Msg.Transfers[0].From)
	})

	t.Run("recipient without wallet", func(t *testing.T) {
		tokenC := env.join(t, "C")
		addExpense(t, env, tokenA, "Tickets", "40", "C", "A")

		// A now owes C, who has no address.
		_, err := env.settlement.SettleTransfer(ctx, withToken(&v1.SettleTransferRequest{From: "A", To: "C"}, tokenA))
		assertCode(t, connect.CodeFailedPrecondition, err)

		_, err = env.settlement.ListSettlements(ctx, withToken(&v1.ListSettlementsRequest{}, tokenC))
		require.NoError(t, err)
	})
}

func TestSettlementService_SettleAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokenA := env.join(t, "A")
	tokenC := env.join(t, "C")

	addExpense(t, env, tokenA, "Hotel", "100", "A", "C")
	addExpense(t, env, tokenA, "Fuel", "30", "B", "C")
	env.gateway.decline["B"] = "insufficient funds"

	resp, err := env.settlement.SettleAll(ctx, withToken(&v1.SettleAllRequest{}, tokenC))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Results, 2)

	paid, declined := resp.Msg.Results[0], resp.Msg.Results[1]
	assert.Equal(t, "A", paid.Transfer.To)
	require.NotNil(t, paid.Settlement)
	assert.Empty(t, paid.Error)

	assert.Equal(t, "B", declined.Transfer.To)
	assert.Nil(t, declined.Settlement)
	assert.Equal(t, connect.CodeAborted.String(), declined.Code)
	assert.Contains(t, declined.Error, "insufficient funds")

	list, err := env.settlement.ListSettlements(ctx, withToken(&v1.ListSettlementsRequest{}, tokenC))
	require.NoError(t, err)
	require.Len(t, list.Msg.Settlements, 1)
	assert.Equal(t, "C", list.Msg.Settlements[0].From)

	// A owes nothing, so there is nothing to settle.
	resp, err = env.settlement.SettleAll(ctx, withToken(&v1.SettleAllRequest{}, tokenA))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Results)
}

func TestSettlementService_RecordSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokenA := env.join(t, "A")
	tokenC := env.join(t, "C")

	addExpense(t, env, tokenA, "Dinner", "90", "A", "A", "B", "C")

	_, err := env.settlement.RecordSettlement(ctx, withToken(&v1.RecordSettlementRequest{
		From: "B", To: "A", Amount: decimal.NewFromInt(30), Chain: "cash", TransactionReference: "receipt-1",
	}, tokenC))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.settlement.RecordSettlement(ctx, withToken(&v1.RecordSettlementRequest{
		From: "B", To: "A", Amount: decimal.NewFromInt(30), Chain: "cash",
	}, tokenA))
	assertCode(t, connect.CodeInvalidArgument, err)

	resp, err := env.settlement.RecordSettlement(ctx, withToken(&v1.RecordSettlementRequest{
		From: "B", To: "A", Amount: decimal.NewFromInt(30), Chain: "cash", TransactionReference: "receipt-1",
	}, tokenA))
	require.NoError(t, err)
	assert.Equal(t, "receipt-1", resp.Msg.Settlement.TransactionReference)
	assert.Empty(t, env.gateway.calls)

	outstanding, err := env.ledger.ListOutstandingTransfers(ctx, withToken(&v1.ListOutstandingTransfersRequest{}, tokenA))
	require.NoError(t, err)
	require.Len(t, outstanding.Msg.Transfers, 1)
	assert.Equal(t, "C", outstanding.Msg.Transfers[0].From)
}

func TestConnectCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", &ledger.ValidationError{Field: "amount", Message: "must be greater than zero"}, connect.CodeInvalidArgument},
		{"unknown participant", fmt.Errorf("wrap: %w", models.ErrUnknownParticipant), connect.CodeInvalidArgument},
		{"invalid settlement", settlement.ErrInvalidSettlement, connect.CodeInvalidArgument},
		{"no address", settlement.ErrNoRecipientAddress, connect.CodeFailedPrecondition},
		{"declined", &settlement.PaymentFailedError{Reason: "no"}, connect.CodeAborted},
		{"gateway down", fmt.Errorf("%w: %w", settlement.ErrGatewayUnavailable, errors.New("dial tcp")), connect.CodeUnavailable},
		{"deadline", context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{"gateway cut off by deadline", fmt.Errorf("%w: %w", settlement.ErrGatewayUnavailable, context.DeadlineExceeded), connect.CodeDeadlineExceeded},
		{"canceled", context.Canceled, connect.CodeCanceled},
		{"other", errors.New("boom"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connectCode(tt.err))
		})
	}
}
