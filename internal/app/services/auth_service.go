package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/rs/zerolog"
)

// AuthService handles sign-in and password recovery against the auth provider
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

type authServiceImpl struct {
	provider            authprovider.Provider
	profiles            ProfileStore
	notifications       NotificationService
	recoveryRedirectURL string
	logger              zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	provider authprovider.Provider,
	profiles ProfileStore,
	notifications NotificationService,
	recoveryRedirectURL string,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		provider:            provider,
		profiles:            profiles,
		notifications:       notifications,
		recoveryRedirectURL: recoveryRedirectURL,
		logger:              logger,
	}
}

// Login exchanges credentials for a provider session and attaches the
// caller's profile when one exists.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	session, err := s.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.logger.Info().Str("email", email).Msg("Login rejected")
			return nil, err
		}
		return nil, fmt.Errorf("error signing in: %w", err)
	}

	resp := &dto.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		User:         dto.AccountInfo{ID: session.User.ID, Email: session.User.Email},
	}

	profile, err := s.profiles.GetByID(ctx, session.User.ID)
	switch {
	case err == nil:
		resp.Profile = profile
	case errors.Is(err, apperrors.ErrProfileNotFound):
		s.logger.Warn().Str("userID", session.User.ID).Msg("Signed-in account has no profile")
	default:
		return nil, err
	}
	return resp, nil
}

// RequestPasswordReset emails a recovery link. It never reports whether the
// address belongs to an account; provider and delivery failures are logged.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}

	link, err := s.provider.GenerateRecoveryLink(ctx, email, s.recoveryRedirectURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("Could not generate recovery link")
		return nil
	}

	if err := s.notifications.SendPasswordReset(ctx, email, "", link); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Could not queue password reset email")
	}
	return nil
}

// profileFromMetadata is the profile stored for a freshly created account
func profileFromMetadata(user *authprovider.User, name string, role models.RoleType) *models.Profile {
	return &models.Profile{
		ID:    user.ID,
		Email: strings.ToLower(user.Email),
		Name:  name,
		Role:  role,
	}
}
