package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// SupabaseConfig holds the project URL and keys of a Supabase Auth instance
type SupabaseConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
}

// SupabaseProvider implements Provider on top of the Supabase Auth REST API
type SupabaseProvider struct {
	config SupabaseConfig
	client *http.Client
	logger zerolog.Logger
}

// NewSupabaseProvider creates a new Supabase auth client
func NewSupabaseProvider(config SupabaseConfig, logger zerolog.Logger) *SupabaseProvider {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	config.URL = strings.TrimRight(config.URL, "/")
	return &SupabaseProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// ResolveUser verifies the token locally when a JWT secret is configured and
// falls back to asking the auth service.
func (p *SupabaseProvider) ResolveUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperrors.ErrTokenNotFound
	}

	if p.config.JWTSecret != "" {
		user, err := p.resolveLocal(token)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, err
		}
		p.logger.Debug().Err(err).Msg("Local token verification failed, asking auth service")
	}

	req, err := p.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, p.config.AnonKey)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var user User
	status, err := p.do(req, &user)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return &user, nil
}

func (p *SupabaseProvider) resolveLocal(token string) (*User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("jwt parse: %w", err)
	}
	if !parsed.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	metadata, _ := claims["user_metadata"].(map[string]interface{})

	return &User{ID: sub, Email: email, Role: role, UserMetadata: metadata}, nil
}

// SignIn exchanges email and password for a session
func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, p.config.AnonKey)
	if err != nil {
		return nil, err
	}

	var session Session
	status, err := p.do(req, &session)
	if err != nil {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return &session, nil
}

// GenerateRecoveryLink asks the admin API for a recovery link for email
func (p *SupabaseProvider) GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error) {
	body := map[string]interface{}{"type": "recovery", "email": email}
	if redirectTo != "" {
		body["redirect_to"] = redirectTo
	}
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/admin/generate_link", body, p.config.ServiceKey)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.config.ServiceKey)

	var out struct {
		ActionLink string `json:"action_link"`
		Properties struct {
			ActionLink string `json:"action_link"`
		} `json:"properties"`
	}
	status, err := p.do(req, &out)
	if err != nil {
		if status == http.StatusNotFound || status == http.StatusUnprocessableEntity {
			return "", apperrors.NewResourceNotFoundError("account not found")
		}
		return "", err
	}

	link := out.ActionLink
	if link == "" {
		link = out.Properties.ActionLink
	}
	if link == "" {
		return "", fmt.Errorf("%w: recovery link missing from response", apperrors.ErrUpstream)
	}
	return link, nil
}

// CreateUser creates a confirmed account through the admin API
func (p *SupabaseProvider) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, error) {
	body := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": metadata,
	}
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", body, p.config.ServiceKey)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.config.ServiceKey)

	var user User
	status, err := p.do(req, &user)
	if err != nil {
		if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		if status == http.StatusBadRequest {
			return nil, apperrors.NewValidationError("the auth service rejected the account data")
		}
		return nil, err
	}
	return &user, nil
}

func (p *SupabaseProvider) newRequest(ctx context.Context, method, path string, body interface{}, apiKey string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode auth request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint, err := url.JoinPath(p.config.URL, strings.SplitN(path, "?", 2)[0])
	if err != nil {
		return nil, fmt.Errorf("invalid auth service URL: %w", err)
	}
	if i := strings.Index(path, "?"); i >= 0 {
		endpoint += path[i:]
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes req and decodes a 2xx body into out. For non-2xx answers the
// status code is returned together with an ErrUpstream-wrapped error.
func (p *SupabaseProvider) do(req *http.Request, out interface{}) (int, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: reading auth response: %v", apperrors.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("body", truncate(string(data), 256)).
			Msg("Auth service returned an error")
		return resp.StatusCode, fmt.Errorf("%w: auth service status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decoding auth response: %v", apperrors.ErrUpstream, err)
		}
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
