package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/filestorage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UploadedFile describes a file received through a multipart form
type UploadedFile struct {
	Name        string
	Type        *string
	Size        int64
	ContentType string
	Content     io.Reader
}

// DocumentService defines the interface for document operations
type DocumentService interface {
	List(ctx context.Context, graduateID *int64) ([]*models.Document, error)
	Create(ctx context.Context, req dto.CreateDocumentRequest) (*models.Document, error)
	Upload(ctx context.Context, graduateID int64, file UploadedFile) (*models.Document, error)
	SignedURL(ctx context.Context, id int64) (*dto.SignedURLResponse, error)
	Delete(ctx context.Context, id int64) error
}

type documentServiceImpl struct {
	documents DocumentStore
	graduates GraduateStore
	store     filestorage.ObjectStore
	urlTTL    time.Duration
	logger    zerolog.Logger
}

// NewDocumentService creates a new document service instance
func NewDocumentService(documents DocumentStore, graduates GraduateStore, store filestorage.ObjectStore, urlTTL time.Duration, logger zerolog.Logger) DocumentService {
	return &documentServiceImpl{
		documents: documents,
		graduates: graduates,
		store:     store,
		urlTTL:    urlTTL,
		logger:    logger,
	}
}

func (s *documentServiceImpl) List(ctx context.Context, graduateID *int64) ([]*models.Document, error) {
	documents, err := s.documents.List(ctx, graduateID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving documents: %w", err)
	}
	return documents, nil
}

// Create registers a file that the client already uploaded to the object store
func (s *documentServiceImpl) Create(ctx context.Context, req dto.CreateDocumentRequest) (*models.Document, error) {
	storagePath := strings.TrimSpace(req.StoragePath)
	if strings.TrimSpace(req.Name) == "" || storagePath == "" {
		return nil, apperrors.NewValidationError("nombre and storage_path are required")
	}
	if _, err := s.graduates.GetByID(ctx, req.GraduateID); err != nil {
		return nil, err
	}

	d := &models.Document{
		GraduateID:  req.GraduateID,
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		StoragePath: storagePath,
		Size:        req.Size,
		MimeType:    req.MimeType,
	}
	if err := s.documents.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Upload stores the file under graduados/{id}/ and registers it. When the
// row cannot be written the stored object is removed again.
func (s *documentServiceImpl) Upload(ctx context.Context, graduateID int64, file UploadedFile) (*models.Document, error) {
	if file.Content == nil || strings.TrimSpace(file.Name) == "" {
		return nil, apperrors.NewValidationError("archivo is required")
	}
	if _, err := s.graduates.GetByID(ctx, graduateID); err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("graduados/%d/%s%s", graduateID, uuid.NewString(), strings.ToLower(path.Ext(file.Name)))
	if err := s.store.Upload(ctx, objectPath, file.Content, file.ContentType); err != nil {
		return nil, fmt.Errorf("error uploading document: %w", err)
	}

	size := file.Size
	d := &models.Document{
		GraduateID:  graduateID,
		Name:        path.Base(file.Name),
		Type:        file.Type,
		StoragePath: objectPath,
		Size:        &size,
	}
	if file.ContentType != "" {
		ct := file.ContentType
		d.MimeType = &ct
	}

	if err := s.documents.Create(ctx, d); err != nil {
		if delErr := s.store.Delete(ctx, objectPath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", objectPath).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}
	return d, nil
}

func (s *documentServiceImpl) SignedURL(ctx context.Context, id int64) (*dto.SignedURLResponse, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, d.StoragePath, s.urlTTL)
	if err != nil {
		if apperrors.Is(err, filestorage.ErrObjectNotFound) {
			return nil, apperrors.NewResourceNotFoundError("document file not found in storage")
		}
		return nil, fmt.Errorf("error signing document URL: %w", err)
	}
	return &dto.SignedURLResponse{URL: url, ExpiresIn: int64(s.urlTTL.Seconds())}, nil
}

// Delete removes the row first, then the stored object. A storage failure
// leaves an orphaned object and is only logged.
func (s *documentServiceImpl) Delete(ctx context.Context, id int64) error {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, d.StoragePath); err != nil {
		s.logger.Warn().Err(err).Int64("documentID", id).Str("path", d.StoragePath).Msg("Document row deleted but storage object could not be removed")
	}
	return nil
}
