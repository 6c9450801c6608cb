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
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "arcwise.v1.SettlementService"
)

const (
	SettlementServiceSettleTransferProcedure   = "/arcwise.v1.SettlementService/SettleTransfer"
	SettlementServiceSettleAllProcedure        = "/arcwise.v1.SettlementService/SettleAll"
	SettlementServiceRecordSettlementProcedure = "/arcwise.v1.SettlementService/RecordSettlement"
	SettlementServiceListSettlementsProcedure  = "/arcwise.v1.SettlementService/ListSettlements"
)

// SettlementServiceClient is a client for the arcwise.v1.SettlementService service.
type SettlementServiceClient interface {
	SettleTransfer(context.Context, *connect.Request[v1.SettleTransferRequest]) (*connect.Response[v1.SettleTransferResponse], error)
	SettleAll(context.Context, *connect.Request[v1.SettleAllRequest]) (*connect.Response[v1.SettleAllResponse], error)
	RecordSettlement(context.Context, *connect.Request[v1.RecordSettlementRequest]) (*connect.Response[v1.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[v1.ListSettlementsRequest]) (*connect.Response[v1.ListSettlementsResponse], error)
}

// NewSettlementServiceClient constructs a client for the
// arcwise.v1.SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(v1.JSONCodec{})}, opts...)
	return &settlementServiceClient{
		settleTransfer:   connect.NewClient[v1.SettleTransferRequest, v1.SettleTransferResponse](httpClient, baseURL+SettlementServiceSettleTransferProcedure, opts...),
		settleAll:        connect.NewClient[v1.SettleAllRequest, v1.SettleAllResponse](httpClient, baseURL+SettlementServiceSettleAllProcedure, opts...),
		recordSettlement: connect.NewClient[v1.RecordSettlementRequest, v1.RecordSettlementResponse](httpClient, baseURL+SettlementServiceRecordSettlementProcedure, opts...),
		listSettlements:  connect.NewClient[v1.ListSettlementsRequest, v1.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
	}
}

type settlementServiceClient struct {
	settleTransfer   *connect.Client[v1.SettleTransferRequest, v1.SettleTransferResponse]
	settleAll        *connect.Client[v1.SettleAllRequest, v1.SettleAllResponse]
	recordSettlement *connect.Client[v1.RecordSettlementRequest, v1.RecordSettlementResponse]
	listSettlements  *connect.Client[v1.ListSettlementsRequest, v1.ListSettlementsResponse]
}

func (c *settlementServiceClient) SettleTransfer(ctx context.Context, req *connect.Request[v1.SettleTransferRequest]) (*connect.Response[v1.SettleTransferResponse], error) {
	return c.settleTransfer.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SettleAll(ctx context.Context, req *connect.Request[v1.SettleAllRequest]) (*connect.Response[v1.SettleAllResponse], error) {
	return c.settleAll.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[v1.RecordSettlementRequest]) (*connect.Response[v1.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[v1.ListSettlementsRequest]) (*connect.Response[v1.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the arcwise.v1.SettlementService service.
type SettlementServiceHandler interface {
	SettleTransfer(context.Context, *connect.Request[v1.SettleTransferRequest]) (*connect.Response[v1.SettleTransferResponse], error)
	SettleAll(context.Context, *connect.Request[v1.SettleAllRequest]) (*connect.Response[v1.SettleAllResponse], error)
	RecordSettlement(context.Context, *connect.Request[v1.RecordSettlementRequest]) (*connect.Response[v1.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[v1.ListSettlementsRequest]) (*connect.Response[v1.ListSettlementsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	codecs := make([]connect.HandlerOption, 0, 2+len(opts))
	for _, codec := range v1.Codecs() {
		codecs = append(codecs, connect.WithCodec(codec))
	}
	opts = append(codecs, opts...)
	settleTransfer := connect.NewUnaryHandler(SettlementServiceSettleTransferProcedure, svc.SettleTransfer, opts...)
	settleAll := connect.NewUnaryHandler(SettlementServiceSettleAllProcedure, svc.SettleAll, opts...)
	recordSettlement := connect.NewUnaryHandler(SettlementServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)
	listSettlements := connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	return "/arcwise.v1.SettlementService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceSettleTransferProcedure:
			settleTransfer.ServeHTTP(w, r)
		case SettlementServiceSettleAllProcedure:
			settleAll.ServeHTTP(w, r)
		case SettlementServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		case SettlementServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) SettleTransfer(context.Context, *connect.Request[v1.SettleTransferRequest]) (*connect.Response[v1.SettleTransferResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SettlementService.SettleTransfer is not implemented"))
}

func (UnimplementedSettlementServiceHandler) SettleAll(context.Context, *connect.Request[v1.SettleAllRequest]) (*connect.Response[v1.SettleAllResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SettlementService.SettleAll is not implemented"))
}

func (UnimplementedSettlementServiceHandler) RecordSettlement(context.Context, *connect.Request[v1.RecordSettlementRequest]) (*connect.Response[v1.RecordSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SettlementService.RecordSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListSettlements(context.Context, *connect.Request[v1.ListSettlementsRequest]) (*connect.Response[v1.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SettlementService.ListSettlements is not implemented"))
}
