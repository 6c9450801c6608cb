package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arcwise/internal/auth"
	"github.com/mmynk/arcwise/internal/middleware"
	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
	"github.com/mmynk/arcwise/pkg/api/arcwisev1/arcwisev1connect"
)

// SessionService lets roster members obtain and inspect session tokens.
type SessionService struct {
	arcwisev1connect.UnimplementedSessionServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *SessionService {
	return &SessionService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Join authenticates a roster member and returns a JWT token.
func (s *SessionService) Join(ctx context.Context, req *connect.Request[v1.JoinRequest]) (*connect.Response[v1.JoinResponse], error) {
	s.logger.Info("Join request", "name", req.Msg.Name)

	if req.Msg.Name == "" || req.Msg.Passphrase == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	participant, err := s.authenticator.Authenticate(ctx, req.Msg.Name, req.Msg.Passphrase)
	if err != nil {
		s.logger.Warn("Join failed", "name", req.Msg.Name, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, expiresAt, err := s.jwtManager.Generate(participant)
	if err != nil {
		s.logger.Error("Failed to generate token", "participant", participant, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Participant joined", "participant", participant)
	return connect.NewResponse(&v1.JoinResponse{
		Token:       token,
		Participant: participant,
		ExpiresAt:   v1.NewTimestamp(expiresAt),
	}), nil
}

// WhoAmI returns the participant named by the caller's token.
func (s *SessionService) WhoAmI(ctx context.Context, req *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error) {
	participant := middleware.GetParticipant(ctx)
	if participant == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return connect.NewResponse(&v1.WhoAmIResponse{Participant: participant}), nil
}
