package filestorage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/egresados/seguimiento-api/internal/pkg/logger"
)

// LocalStorage keeps objects on the local filesystem. It is meant for
// development; files are served statically under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage rooted at basePath
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory objects are stored in
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// cleanObjectPath normalises a bucket-relative path and rejects traversal
func cleanObjectPath(objectPath string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(objectPath))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return cleaned, nil
}

func (ls *LocalStorage) physicalPath(objectPath string) (string, string, error) {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", "", err
	}
	return cleaned, filepath.Join(ls.basePath, filepath.FromSlash(cleaned)), nil
}

// Upload copies r to basePath/path, creating directories as needed
func (ls *LocalStorage) Upload(_ context.Context, objectPath string, r io.Reader, _ string) error {
	_, dstPath, err := ls.physicalPath(objectPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Debug().Str("path", dstPath).Msg("Object stored locally")
	return nil
}

// Delete removes the file; a missing file counts as deleted
func (ls *LocalStorage) Delete(_ context.Context, objectPath string) error {
	_, physical, err := ls.physicalPath(objectPath)
	if err != nil {
		return err
	}

	if err := os.Remove(physical); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physical).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physical).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SignedURL returns the static URL of the file with an informational expiry.
// Local files are not access controlled.
func (ls *LocalStorage) SignedURL(_ context.Context, objectPath string, ttl time.Duration) (string, error) {
	cleaned, physical, err := ls.physicalPath(objectPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(physical); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: object %q not found", ErrObjectNotFound, cleaned)
		}
		return "", err
	}

	segments := strings.Split(cleaned, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	expires := time.Now().Add(ttl).Unix()
	return ls.baseURL + "/" + strings.Join(segments, "/") + "?expires=" + strconv.FormatInt(expires, 10), nil
}
