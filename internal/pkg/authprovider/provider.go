// Package authprovider talks to the managed authentication service that owns
// user accounts and issues bearer tokens.
package authprovider

import (
	"context"
	"time"
)

// User is the auth provider's view of an account
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Session is returned by a successful password sign-in
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

// Provider is the subset of the auth service used by the API
type Provider interface {
	// ResolveUser validates a bearer token and returns its owner
	ResolveUser(ctx context.Context, token string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// GenerateRecoveryLink returns a password recovery link without sending it
	GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error)
	CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, error)
}
