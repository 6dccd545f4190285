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
)

// AreaRepository handles database operations for interest areas
type AreaRepository struct {
	db db.Pool
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(pool db.Pool) *AreaRepository {
	return &AreaRepository{db: pool}
}

// List returns every interest area ordered by name
func (r *AreaRepository) List(ctx context.Context) ([]*models.Area, error) {
	sql, args, err := psql.Select("id", "nombre_area", "descripcion").From("areas_interes").OrderBy("nombre_area").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building area list query: %w", err)
	}
	return queryAreas(ctx, r.db, sql, args)
}

func queryAreas(ctx context.Context, q db.DBTX, sql string, args []interface{}) ([]*models.Area, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing interest areas")
		return nil, fmt.Errorf("error listing interest areas: %w", err)
	}
	defer rows.Close()

	areas := make([]*models.Area, 0)
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("error scanning interest area: %w", err)
		}
		areas = append(areas, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interest areas: %w", err)
	}
	return areas, nil
}

// GetByID retrieves an interest area by ID
func (r *AreaRepository) GetByID(ctx context.Context, id int64) (*models.Area, error) {
	sql, args, err := psql.Select("id", "nombre_area", "descripcion").From("areas_interes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building area query: %w", err)
	}

	var a models.Area
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.Name, &a.Description); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAreaNotFound
		}
		logger.Error().Err(err).Int64("areaID", id).Msg("Error retrieving interest area")
		return nil, fmt.Errorf("error retrieving interest area: %w", err)
	}
	return &a, nil
}

// Create inserts an interest area
func (r *AreaRepository) Create(ctx context.Context, a *models.Area) error {
	sql, args, err := psql.Insert("areas_interes").
		Columns("nombre_area", "descripcion").
		Values(a.Name, a.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create area query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAreaExists
		}
		logger.Error().Err(err).Str("name", a.Name).Msg("Error creating interest area")
		return fmt.Errorf("error creating interest area: %w", err)
	}
	return nil
}

// Update overwrites the name and description of an interest area
func (r *AreaRepository) Update(ctx context.Context, a *models.Area) error {
	sql, args, err := psql.Update("areas_interes").
		Set("nombre_area", a.Name).
		Set("descripcion", a.Description).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update area query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAreaExists
		}
		logger.Error().Err(err).Int64("areaID", a.ID).Msg("Error updating interest area")
		return fmt.Errorf("error updating interest area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAreaNotFound
	}
	return nil
}

// Delete removes an interest area. Workshop and graduate associations are
// removed by the ON DELETE CASCADE foreign keys.
func (r *AreaRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("areas_interes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete area query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("areaID", id).Msg("Error deleting interest area")
		return fmt.Errorf("error deleting interest area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAreaNotFound
	}
	return nil
}

// EnsureByName inserts the area when no area with that name exists yet
func (r *AreaRepository) EnsureByName(ctx context.Context, name string, description *string) error {
	sql, args, err := psql.Insert("areas_interes").
		Columns("nombre_area", "descripcion").
		Values(name, description).
		Suffix("ON CONFLICT (nombre_area) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building ensure area query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error ensuring interest area %q: %w", name, err)
	}
	return nil
}
