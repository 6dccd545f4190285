package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Context keys set by the auth middleware
const (
	UserContextKey    = "authUser"
	ProfileContextKey = "profile"
)

// ProfileLookup resolves the profile of an authenticated account
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	provider  authprovider.Provider
	profiles  ProfileLookup
	adminRole models.RoleType
	logger    zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(provider authprovider.Provider, profiles ProfileLookup, adminRole string, logger zerolog.Logger) *AuthMiddleware {
	if adminRole == "" {
		adminRole = string(models.RoleAdministrator)
	}
	return &AuthMiddleware{
		provider:  provider,
		profiles:  profiles,
		adminRole: models.RoleType(adminRole),
		logger:    logger,
	}
}

// Authenticated resolves the bearer token through the auth provider and
// stores the account in the context
func (m *AuthMiddleware) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.resolve(c); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// AdminRequired lets through only accounts whose profile carries the admin
// role. Missing or invalid tokens get 401; any other account gets 403.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		profile, err := m.profiles.GetByID(c.Request.Context(), user.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				AbortWithError(c, apperrors.ErrProfileHasNoAccount)
				return
			}
			AbortWithError(c, err)
			return
		}
		c.Set(ProfileContextKey, profile)

		if profile.Role != m.adminRole {
			m.logger.Info().
				Str("userID", user.ID).
				Str("role", string(profile.Role)).
				Str("path", c.FullPath()).
				Msg("Admin route refused")
			AbortWithError(c, apperrors.NewForbiddenError("administrator role required"))
			return
		}
		c.Next()
	}
}

// resolve returns the account already stored by an earlier middleware or
// resolves the request's bearer token
func (m *AuthMiddleware) resolve(c *gin.Context) (*authprovider.User, error) {
	if user, ok := CurrentUser(c); ok {
		return user, nil
	}

	token, err := ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}
	user, err := m.provider.ResolveUser(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	c.Set(UserContextKey, user)
	return user, nil
}

// ExtractBearerToken extracts the token from an "Authorization: Bearer x" header
func ExtractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || strings.EqualFold(header, "Bearer") {
		return "", apperrors.ErrTokenNotFound
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", apperrors.ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.ErrTokenNotFound
	}
	return token, nil
}

// CurrentUser returns the account stored by Authenticated or AdminRequired
func CurrentUser(c *gin.Context) (*authprovider.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authprovider.User)
	return user, ok && user != nil
}
