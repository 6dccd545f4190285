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

// PreferenceRepository stores the interest areas chosen by each graduate
type PreferenceRepository struct {
	db db.Pool
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(pool db.Pool) *PreferenceRepository {
	return &PreferenceRepository{db: pool}
}

// List returns the interest areas a graduate selected
func (r *PreferenceRepository) List(ctx context.Context, graduateID int64) ([]*models.Area, error) {
	sql, args, err := psql.Select("a.id", "a.nombre_area", "a.descripcion").
		From("graduado_areas ga").
		Join("areas_interes a ON a.id = ga.area_id").
		Where(squirrel.Eq{"ga.graduado_id": graduateID}).
		OrderBy("a.nombre_area").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building preference query: %w", err)
	}
	return queryAreas(ctx, r.db, sql, args)
}

// Replace swaps the whole preference set of a graduate in one transaction.
// An empty areaIDs leaves the graduate with no preferences.
func (r *PreferenceRepository) Replace(ctx context.Context, graduateID int64, areaIDs []int64) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return replaceLinks(ctx, tx, "graduado_areas", "graduado_id", "area_id", graduateID, areaIDs)
	})
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "unknown graduate or interest area")
		}
		logger.Error().Err(err).Int64("graduateID", graduateID).Msg("Error replacing preferences")
		return fmt.Errorf("error replacing preferences: %w", err)
	}
	return nil
}
