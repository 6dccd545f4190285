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
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService defines the interface for profile and account operations
type UserService interface {
	Me(ctx context.Context, user *authprovider.User) (*dto.MeResponse, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) (*models.Profile, error)
	ListUsers(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.Profile, error)
}

type userServiceImpl struct {
	provider  authprovider.Provider
	profiles  ProfileStore
	graduates GraduateStore
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(provider authprovider.Provider, profiles ProfileStore, graduates GraduateStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		provider:  provider,
		profiles:  profiles,
		graduates: graduates,
		logger:    logger,
	}
}

// Me returns the caller's profile and, when linked, their graduate record
func (s *userServiceImpl) Me(ctx context.Context, user *authprovider.User) (*dto.MeResponse, error) {
	if user == nil {
		return nil, apperrors.ErrTokenNotFound
	}
	profile, err := s.profiles.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{Profile: profile}
	graduate, err := s.graduates.GetByProfileID(ctx, user.ID)
	switch {
	case err == nil:
		resp.Graduate = graduate
	case errors.Is(err, apperrors.ErrResourceNotFound):
	default:
		return nil, err
	}
	return resp, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("profile id must be a UUID")
	}
	return s.profiles.GetByID(ctx, id)
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role := models.RoleType(*req.Role)
		if !role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		profile.Role = role
	}
	if profile.Name == "" {
		return nil, apperrors.NewValidationError("nombre must not be empty")
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	profiles, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	return profiles, nil
}

// CreateUser creates the account in the auth provider and then stores its
// profile. If the profile write fails the account remains and a later
// CreateUser for the same email reports a conflict.
func (s *userServiceImpl) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.Profile, error) {
	role := models.RoleType(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("nombre is required")
	}

	user, err := s.provider.CreateUser(ctx, strings.TrimSpace(req.Email), req.Password, map[string]interface{}{
		"nombre": name,
		"rol":    string(role),
	})
	if err != nil {
		return nil, err
	}

	profile := profileFromMetadata(user, name, role)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Account created but profile could not be stored")
		return nil, err
	}
	s.logger.Info().Str("userID", user.ID).Str("role", string(role)).Msg("User created")
	return profile, nil
}
