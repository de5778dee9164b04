package services

import (
	"context"
	"errors"
	"net/http"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/session"
)

// authService signs users in and out through the hosted auth API.
type authService struct {
	gateway  AuthGateway
	sessions *session.Store
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(gateway AuthGateway, sessions *session.Store) AuthServicer {
	return &authService{gateway: gateway, sessions: sessions}
}

// SignIn exchanges credentials for a session.
func (s *authService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	sess, err := s.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	return sess, nil
}

// SignUp registers a user. The session may carry no access token when the
// auth API waits for email confirmation.
func (s *authService) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	sess, err := s.gateway.SignUp(ctx, email, password)
	if err != nil {
		var apiErr *auth.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrSignUpFailed, apiErr.Message), err)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	return sess, nil
}

// SignOut drops the session's workspace and revokes the token. A failed
// revocation is logged only; the local session is gone either way.
func (s *authService) SignOut(ctx context.Context, id session.Identity) error {
	s.sessions.Close(id.Token)

	if err := s.gateway.SignOut(ctx, id.Token); err != nil {
		logger.Named("auth").Warnw("remote sign out failed", "user_id", id.UserID, "error", err)
	}
	return nil
}
