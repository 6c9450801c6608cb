// Package arcwisev1connect contains Connect handlers and clients for the
// arcwise.v1 services.
package arcwisev1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "arcwise.v1.LedgerService"
)

const (
	LedgerServiceGetRosterProcedure                = "/arcwise.v1.LedgerService/GetRoster"
	LedgerServiceAddExpenseProcedure               = "/arcwise.v1.LedgerService/AddExpense"
	LedgerServiceListExpensesProcedure             = "/arcwise.v1.LedgerService/ListExpenses"
	LedgerServiceComputeBalancesProcedure          = "/arcwise.v1.LedgerService/ComputeBalances"
	LedgerServiceListOutstandingTransfersProcedure = "/arcwise.v1.LedgerService/ListOutstandingTransfers"
)

// LedgerServiceClient is a client for the arcwise.v1.LedgerService service.
type LedgerServiceClient interface {
	GetRoster(context.Context, *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error)
	AddExpense(context.Context, *connect.Request[v1.AddExpenseRequest]) (*connect.Response[v1.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[v1.ListExpensesRequest]) (*connect.Response[v1.ListExpensesResponse], error)
	ComputeBalances(context.Context, *connect.Request[v1.ComputeBalancesRequest]) (*connect.Response[v1.ComputeBalancesResponse], error)
	ListOutstandingTransfers(context.Context, *connect.Request[v1.ListOutstandingTransfersRequest]) (*connect.Response[v1.ListOutstandingTransfersResponse], error)
}

// NewLedgerServiceClient constructs a client for the arcwise.v1.LedgerService
// service. The client always speaks JSON.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(v1.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		getRoster:                connect.NewClient[v1.GetRosterRequest, v1.GetRosterResponse](httpClient, baseURL+LedgerServiceGetRosterProcedure, opts...),
		addExpense:               connect.NewClient[v1.AddExpenseRequest, v1.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:             connect.NewClient[v1.ListExpensesRequest, v1.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		computeBalances:          connect.NewClient[v1.ComputeBalancesRequest, v1.ComputeBalancesResponse](httpClient, baseURL+LedgerServiceComputeBalancesProcedure, opts...),
		listOutstandingTransfers: connect.NewClient[v1.ListOutstandingTransfersRequest, v1.ListOutstandingTransfersResponse](httpClient, baseURL+LedgerServiceListOutstandingTransfersProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	getRoster                *connect.Client[v1.GetRosterRequest, v1.GetRosterResponse]
	addExpense               *connect.Client[v1.AddExpenseRequest, v1.AddExpenseResponse]
	listExpenses             *connect.Client[v1.ListExpensesRequest, v1.ListExpensesResponse]
	computeBalances          *connect.Client[v1.ComputeBalancesRequest, v1.ComputeBalancesResponse]
	listOutstandingTransfers *connect.Client[v1.ListOutstandingTransfersRequest, v1.ListOutstandingTransfersResponse]
}

func (c *ledgerServiceClient) GetRoster(ctx context.Context, req *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	return c.getRoster.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[v1.AddExpenseRequest]) (*connect.Response[v1.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[v1.ListExpensesRequest]) (*connect.Response[v1.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ComputeBalances(ctx context.Context, req *connect.Request[v1.ComputeBalancesRequest]) (*connect.Response[v1.ComputeBalancesResponse], error) {
	return c.computeBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListOutstandingTransfers(ctx context.Context, req *connect.Request[v1.ListOutstandingTransfersRequest]) (*connect.Response[v1.ListOutstandingTransfersResponse], error) {
	return c.listOutstandingTransfers.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the arcwise.v1.LedgerService service.
type LedgerServiceHandler interface {
	GetRoster(context.Context, *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error)
	AddExpense(context.Context, *connect.Request[v1.AddExpenseRequest]) (*connect.Response[v1.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[v1.ListExpensesRequest]) (*connect.Response[v1.ListExpensesResponse], error)
	ComputeBalances(context.Context, *connect.Request[v1.ComputeBalancesRequest]) (*connect.Response[v1.ComputeBalancesResponse], error)
	ListOutstandingTransfers(context.Context, *connect.Request[v1.ListOutstandingTransfersRequest]) (*connect.Response[v1.ListOutstandingTransfersResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	codecs := make([]connect.HandlerOption, 0, 2+len(opts))
	for _, codec := range v1.Codecs() {
		codecs = append(codecs, connect.WithCodec(codec))
	}
	opts = append(codecs, opts...)
	getRoster := connect.NewUnaryHandler(LedgerServiceGetRosterProcedure, svc.GetRoster, opts...)
	addExpense := connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	computeBalances := connect.NewUnaryHandler(LedgerServiceComputeBalancesProcedure, svc.ComputeBalances, opts...)
	listOutstandingTransfers := connect.NewUnaryHandler(LedgerServiceListOutstandingTransfersProcedure, svc.ListOutstandingTransfers, opts...)
	return "/arcwise.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceGetRosterProcedure:
			getRoster.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceComputeBalancesProcedure:
			computeBalances.ServeHTTP(w, r)
		case LedgerServiceListOutstandingTransfersProcedure:
			listOutstandingTransfers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) GetRoster(context.Context, *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.LedgerService.GetRoster is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[v1.AddExpenseRequest]) (*connect.Response[v1.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.LedgerService.AddExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[v1.ListExpensesRequest]) (*connect.Response[v1.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ComputeBalances(context.Context, *connect.Request[v1.ComputeBalancesRequest]) (*connect.Response[v1.ComputeBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.LedgerService.ComputeBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListOutstandingTransfers(context.Context, *connect.Request[v1.ListOutstandingTransfersRequest]) (*connect.Response[v1.ListOutstandingTransfersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.LedgerService.ListOutstandingTransfers is not implemented"))
}
