package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/arcwise/internal/auth"
	"github.com/mmynk/arcwise/internal/metrics"
)

type ping struct{}

// echoParticipant answers with whoever the interceptors put in the context.
func echoParticipant(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetParticipant(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func requestWithAuth(header string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, _, err := jwtManager.Generate("B")
	require.NoError(t, err)

	interceptor := RequireAuth(jwtManager)

	t.Run("valid token", func(t *testing.T) {
		var seen string
		_, err := interceptor(echoParticipant(&seen))(context.Background(), requestWithAuth("Bearer "+token))
		require.NoError(t, err)
		assert.Equal(t, "B", seen)
	})

	for name, header := range map[string]string{
		"missing header": "",
		"malformed":      "Token " + token,
		"bad signature":  "Bearer " + token + "x",
	} {
		t.Run(name, func(t *testing.T) {
			var seen string
			_, err := interceptor(echoParticipant(&seen))(context.Background(), requestWithAuth(header))
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
			assert.Empty(t, seen)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, _, err := jwtManager.Generate("C")
	require.NoError(t, err)

	interceptor := OptionalAuth(jwtManager)

	var seen string
	_, err = interceptor(echoParticipant(&seen))(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "C", seen)

	seen = "unchanged"
	_, err = interceptor(echoParticipant(&seen))(context.Background(), requestWithAuth("Bearer nope"))
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	interceptor := MetricsInterceptor(m)

	ok := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	}
	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	}

	_, err := interceptor(ok)(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	_, err = interceptor(failing)(context.Background(), requestWithAuth(""))
	require.Error(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.RPCDuration))
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wantErr := connect.NewError(connect.CodeNotFound, errors.New("missing"))
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, wantErr
	}

	_, err := LoggingInterceptor(logger)(next)(WithParticipant(context.Background(), "A"), requestWithAuth(""))
	assert.Same(t, wantErr, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "participant=A")
	assert.Contains(t, buf.String(), "code=not_found")
}

func TestLevelForCode(t *testing.T) {
	assert.Equal(t, slog.LevelError, levelForCode(connect.CodeInternal))
	assert.Equal(t, slog.LevelError, levelForCode(connect.CodeUnavailable))
	assert.Equal(t, slog.LevelWarn, levelForCode(connect.CodeInvalidArgument))
	assert.Equal(t, slog.LevelWarn, levelForCode(connect.CodePermissionDenied))
}
