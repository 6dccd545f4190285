package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/db"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/dberrors"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var documentColumns = []string{
	"id", "graduado_id", "nombre", "tipo", "storage_path", "tamano", "mime_type", "created_at",
}

// DocumentRepository handles the metadata rows of stored documents
type DocumentRepository struct {
	db db.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(pool db.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	if err := row.Scan(&d.ID, &d.GraduateID, &d.Name, &d.Type, &d.StoragePath, &d.Size, &d.MimeType, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns documents, optionally restricted to one graduate
func (r *DocumentRepository) List(ctx context.Context, graduateID *int64) ([]*models.Document, error) {
	query := psql.Select(documentColumns...).From("documentos").OrderBy("created_at DESC", "id DESC")
	if graduateID != nil {
		query = query.Where(squirrel.Eq{"graduado_id": *graduateID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building document list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing documents")
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*models.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return documents, nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	sql, args, err := psql.Select(documentColumns...).From("documentos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building document query: %w", err)
	}

	d, err := scanDocument(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrDocumentNotFound
		}
		logger.Error().Err(err).Int64("documentID", id).Msg("Error retrieving document")
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}
	return d, nil
}

// Create inserts a document row
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	sql, args, err := psql.Insert("documentos").
		Columns("graduado_id", "nombre", "tipo", "storage_path", "tamano", "mime_type").
		Values(d.GraduateID, d.Name, d.Type, d.StoragePath, d.Size, d.MimeType).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create document query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrGraduateNotFound
		}
		logger.Error().Err(err).Int64("graduateID", d.GraduateID).Msg("Error creating document")
		return fmt.Errorf("error creating document: %w", err)
	}
	return nil
}

// Delete removes a document row
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("documentos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete document query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("documentID", id).Msg("Error deleting document")
		return fmt.Errorf("error deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}
