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
	// SessionServiceName is the fully-qualified name of the SessionService service.
	SessionServiceName = "arcwise.v1.SessionService"
)

const (
	SessionServiceJoinProcedure   = "/arcwise.v1.SessionService/Join"
	SessionServiceWhoAmIProcedure = "/arcwise.v1.SessionService/WhoAmI"
)

// SessionServiceClient is a client for the arcwise.v1.SessionService service.
type SessionServiceClient interface {
	Join(context.Context, *connect.Request[v1.JoinRequest]) (*connect.Response[v1.JoinResponse], error)
	WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error)
}

// NewSessionServiceClient constructs a client for the arcwise.v1.SessionService service.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(v1.JSONCodec{})}, opts...)
	return &sessionServiceClient{
		join:   connect.NewClient[v1.JoinRequest, v1.JoinResponse](httpClient, baseURL+SessionServiceJoinProcedure, opts...),
		whoAmI: connect.NewClient[v1.WhoAmIRequest, v1.WhoAmIResponse](httpClient, baseURL+SessionServiceWhoAmIProcedure, opts...),
	}
}

type sessionServiceClient struct {
	join   *connect.Client[v1.JoinRequest, v1.JoinResponse]
	whoAmI *connect.Client[v1.WhoAmIRequest, v1.WhoAmIResponse]
}

func (c *sessionServiceClient) Join(ctx context.Context, req *connect.Request[v1.JoinRequest]) (*connect.Response[v1.JoinResponse], error) {
	return c.join.CallUnary(ctx, req)
}

func (c *sessionServiceClient) WhoAmI(ctx context.Context, req *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

// SessionServiceHandler is an implementation of the arcwise.v1.SessionService service.
type SessionServiceHandler interface {
	Join(context.Context, *connect.Request[v1.JoinRequest]) (*connect.Response[v1.JoinResponse], error)
	WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	codecs := make([]connect.HandlerOption, 0, 2+len(opts))
	for _, codec := range v1.Codecs() {
		codecs = append(codecs, connect.WithCodec(codec))
	}
	opts = append(codecs, opts...)
	join := connect.NewUnaryHandler(SessionServiceJoinProcedure, svc.Join, opts...)
	whoAmI := connect.NewUnaryHandler(SessionServiceWhoAmIProcedure, svc.WhoAmI, opts...)
	return "/arcwise.v1.SessionService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SessionServiceJoinProcedure:
			join.ServeHTTP(w, r)
		case SessionServiceWhoAmIProcedure:
			whoAmI.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSessionServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSessionServiceHandler struct{}

func (UnimplementedSessionServiceHandler) Join(context.Context, *connect.Request[v1.JoinRequest]) (*connect.Response[v1.JoinResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SessionService.Join is not implemented"))
}

func (UnimplementedSessionServiceHandler) WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("arcwise.v1.SessionService.WhoAmI is not implemented"))
}
