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

var workshopColumns = []string{
	"id", "titulo", "descripcion", "objetivos", "fecha_inicio", "fecha_fin", "cupo", "modalidad",
	"publicado", "cancelado", "facilitador_id::text", "created_at", "updated_at",
}

// WorkshopRepository handles database operations for workshops and their
// interest area associations.
type WorkshopRepository struct {
	db db.Pool
}

// NewWorkshopRepository creates a new workshop repository
func NewWorkshopRepository(pool db.Pool) *WorkshopRepository {
	return &WorkshopRepository{db: pool}
}

func scanWorkshop(row pgx.Row) (*models.Workshop, error) {
	var w models.Workshop
	err := row.Scan(
		&w.ID, &w.Title, &w.Description, &w.Objectives, &w.StartsAt, &w.EndsAt, &w.Capacity, &w.Modality,
		&w.Published, &w.Cancelled, &w.FacilitatorID, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.AreaIDs = []int64{}
	return &w, nil
}

// List returns the workshops matching the filter, most recent start first
func (r *WorkshopRepository) List(ctx context.Context, filter models.WorkshopFilter) ([]*models.Workshop, error) {
	query := psql.Select(workshopColumns...).From("talleres").
		OrderBy("fecha_inicio DESC NULLS LAST", "id DESC")
	if filter.FacilitatorID != nil {
		query = query.Where(squirrel.Eq{"facilitador_id": *filter.FacilitatorID})
	}
	if filter.Published != nil {
		query = query.Where(squirrel.Eq{"publicado": *filter.Published})
	}
	if filter.Cancelled != nil {
		query = query.Where(squirrel.Eq{"cancelado": *filter.Cancelled})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building workshop list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing workshops")
		return nil, fmt.Errorf("error listing workshops: %w", err)
	}
	defer rows.Close()

	workshops := make([]*models.Workshop, 0)
	byID := make(map[int64]*models.Workshop)
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning workshop: %w", err)
		}
		workshops = append(workshops, w)
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workshops: %w", err)
	}

	if len(workshops) == 0 {
		return workshops, nil
	}
	if err := r.attachAreas(ctx, byID); err != nil {
		return nil, err
	}
	return workshops, nil
}

func (r *WorkshopRepository) attachAreas(ctx context.Context, byID map[int64]*models.Workshop) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	sql, args, err := psql.Select("taller_id", "area_id").From("taller_areas").
		Where(squirrel.Eq{"taller_id": ids}).
		OrderBy("taller_id", "area_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building workshop areas query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading workshop areas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var workshopID, areaID int64
		if err := rows.Scan(&workshopID, &areaID); err != nil {
			return fmt.Errorf("error scanning workshop area: %w", err)
		}
		if w, ok := byID[workshopID]; ok {
			w.AreaIDs = append(w.AreaIDs, areaID)
		}
	}
	return rows.Err()
}

// GetByID retrieves a workshop with its area ids
func (r *WorkshopRepository) GetByID(ctx context.Context, id int64) (*models.Workshop, error) {
	sql, args, err := psql.Select(workshopColumns...).From("talleres").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building workshop query: %w", err)
	}

	w, err := scanWorkshop(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrWorkshopNotFound
		}
		logger.Error().Err(err).Int64("workshopID", id).Msg("Error retrieving workshop")
		return nil, fmt.Errorf("error retrieving workshop: %w", err)
	}

	areaIDs, err := r.AreaIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	w.AreaIDs = areaIDs
	return w, nil
}

// AreaIDs returns the interest areas associated with a workshop
func (r *WorkshopRepository) AreaIDs(ctx context.Context, workshopID int64) ([]int64, error) {
	sql, args, err := psql.Select("area_id").From("taller_areas").
		Where(squirrel.Eq{"taller_id": workshopID}).
		OrderBy("area_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building workshop areas query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading workshop areas: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning workshop area: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a workshop and its area associations in one transaction
func (r *WorkshopRepository) Create(ctx context.Context, w *models.Workshop) error {
	sql, args, err := psql.Insert("talleres").
		Columns("titulo", "descripcion", "objetivos", "fecha_inicio", "fecha_fin", "cupo", "modalidad", "publicado", "cancelado", "facilitador_id").
		Values(w.Title, w.Description, w.Objectives, w.StartsAt, w.EndsAt, w.Capacity, w.Modality, w.Published, w.Cancelled, w.FacilitatorID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create workshop query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "taller_areas", "taller_id", "area_id", w.ID, w.AreaIDs)
	})
	if err != nil {
		return mapWorkshopWriteError(err, "creating")
	}
	w.AreaIDs = uniqueIDs(w.AreaIDs)
	return nil
}

// Update overwrites the scalar columns of a workshop. When areaIDs is non-nil
// the associations are replaced in the same transaction; an empty slice
// removes them all.
func (r *WorkshopRepository) Update(ctx context.Context, w *models.Workshop, areaIDs *[]int64) error {
	sql, args, err := psql.Update("talleres").
		Set("titulo", w.Title).
		Set("descripcion", w.Description).
		Set("objetivos", w.Objectives).
		Set("fecha_inicio", w.StartsAt).
		Set("fecha_fin", w.EndsAt).
		Set("cupo", w.Capacity).
		Set("modalidad", w.Modality).
		Set("publicado", w.Published).
		Set("cancelado", w.Cancelled).
		Set("facilitador_id", w.FacilitatorID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": w.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update workshop query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&w.UpdatedAt); err != nil {
			return err
		}
		if areaIDs == nil {
			return nil
		}
		return replaceLinks(ctx, tx, "taller_areas", "taller_id", "area_id", w.ID, *areaIDs)
	})
	if err != nil {
		if isNoRows(err) {
			return apperrors.ErrWorkshopNotFound
		}
		return mapWorkshopWriteError(err, "updating")
	}

	if areaIDs != nil {
		w.AreaIDs = uniqueIDs(*areaIDs)
	}
	return nil
}

// Delete removes a workshop; associations and enrollments cascade
func (r *WorkshopRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("talleres").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete workshop query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("workshopID", id).Msg("Error deleting workshop")
		return fmt.Errorf("error deleting workshop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWorkshopNotFound
	}
	return nil
}

func mapWorkshopWriteError(err error, op string) error {
	switch {
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.NewCustomError(apperrors.ErrInvalidReference, "unknown interest area or facilitator")
	case dberrors.IsCheckViolation(err):
		return apperrors.NewValidationError("workshop violates a data constraint")
	}
	logger.Error().Err(err).Str("op", op).Msg("Error writing workshop")
	return fmt.Errorf("error %s workshop: %w", op, err)
}
