package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SupabaseStorage implements ObjectStore with the Supabase Storage REST API
type SupabaseStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
	logger     zerolog.Logger
}

// NewSupabaseStorage creates a client for one bucket of a Supabase project
func NewSupabaseStorage(projectURL, bucket, serviceKey string, logger zerolog.Logger) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(projectURL, "/") + "/storage/v1",
		bucket:     bucket,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func escapeObjectPath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (s *SupabaseStorage) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	return req, nil
}

// Upload stores r under path; an existing object is not overwritten
func (s *SupabaseStorage) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/object/%s/%s", s.baseURL, url.PathEscape(s.bucket), escapeObjectPath(cleaned))
	req, err := s.newRequest(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	_, err = s.do(req, nil)
	return err
}

// Delete removes the object through the bulk delete endpoint
func (s *SupabaseStorage) Delete(ctx context.Context, objectPath string) error {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": {cleaned}})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/object/%s", s.baseURL, url.PathEscape(s.bucket))
	req, err := s.newRequest(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	status, err := s.do(req, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// SignedURL asks the storage service to sign a download URL valid for ttl
func (s *SupabaseStorage) SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error) {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	payload, err := json.Marshal(map[string]int64{"expiresIn": seconds})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/object/sign/%s/%s", s.baseURL, url.PathEscape(s.bucket), escapeObjectPath(cleaned))
	req, err := s.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		SignedURL string `json:"signedURL"`
	}
	status, err := s.do(req, &out)
	if err != nil {
		if status == http.StatusNotFound || status == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, cleaned)
		}
		return "", err
	}
	if out.SignedURL == "" {
		return "", fmt.Errorf("storage service returned an empty signed URL")
	}

	// The service answers with a path relative to /storage/v1.
	if strings.HasPrefix(out.SignedURL, "http://") || strings.HasPrefix(out.SignedURL, "https://") {
		return out.SignedURL, nil
	}
	return s.baseURL + "/" + strings.TrimLeft(out.SignedURL, "/"), nil
}

func (s *SupabaseStorage) do(req *http.Request, out interface{}) (int, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read storage response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Msg("Storage service returned an error")
		return resp.StatusCode, fmt.Errorf("storage service status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode storage response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
