package service

import (
	"context"
	"encoding/json"
	"strings"

	"mediplus/internal/model"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	backend AuthBackend
	logger  zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(backend AuthBackend, logger zerolog.Logger) AuthService {
	return &authService{
		backend: backend,
		logger:  logger.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := requireCredentials(creds, false); err != nil {
		return model.AuthResponse{}, err
	}

	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		s.logger.Info().Err(err).Str("email", creds.Email).Msg("login failed")
		return model.AuthResponse{}, err
	}
	return resp, nil
}

func (s *authService) Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Name = strings.TrimSpace(creds.Name)
	if err := requireCredentials(creds, true); err != nil {
		return model.AuthResponse{}, err
	}

	resp, err := s.backend.Signup(ctx, creds)
	if err != nil {
		s.logger.Info().Err(err).Str("email", creds.Email).Msg("signup failed")
		return model.AuthResponse{}, err
	}

	s.logger.Info().Str("email", creds.Email).Msg("user signed up")
	return resp, nil
}

func (s *authService) MyOrders(ctx context.Context, token string) (json.RawMessage, error) {
	if token == "" {
		return nil, model.ErrAuthRequired
	}
	return s.backend.MyOrders(ctx, token)
}

func requireCredentials(creds model.Credentials, signup bool) error {
	if signup && creds.Name == "" {
		return model.MissingFieldError("Name")
	}
	if creds.Email == "" {
		return model.MissingFieldError("Email")
	}
	if creds.Password == "" {
		return model.MissingFieldError("Password")
	}
	return nil
}
