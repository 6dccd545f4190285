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

const graduateNationalIDKey = "graduados_cedula_key"

var graduateColumns = []string{
	"id", "perfil_id::text", "nombre", "apellido", "cedula", "email", "telefono",
	"direccion", "zona", "carrera", "anio_egreso", "created_at", "updated_at",
}

// GraduateRepository handles database operations for graduates
type GraduateRepository struct {
	db db.Pool
}

// NewGraduateRepository creates a new graduate repository
func NewGraduateRepository(pool db.Pool) *GraduateRepository {
	return &GraduateRepository{db: pool}
}

func scanGraduate(row pgx.Row) (*models.Graduate, error) {
	var g models.Graduate
	err := row.Scan(
		&g.ID, &g.ProfileID, &g.FirstName, &g.LastName, &g.NationalID, &g.Email, &g.Phone,
		&g.Address, &g.Zone, &g.Program, &g.GraduationYear, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns the graduates matching the filter, ordered by last name
func (r *GraduateRepository) List(ctx context.Context, filter models.GraduateFilter) ([]*models.Graduate, error) {
	query := psql.Select(graduateColumns...).From("graduados").OrderBy("apellido", "nombre", "id")
	if filter.Zone != nil {
		query = query.Where(squirrel.Eq{"zona": *filter.Zone})
	}
	if filter.Program != nil {
		query = query.Where(squirrel.Eq{"carrera": *filter.Program})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building graduate list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing graduates")
		return nil, fmt.Errorf("error listing graduates: %w", err)
	}
	defer rows.Close()

	graduates := make([]*models.Graduate, 0)
	for rows.Next() {
		g, err := scanGraduate(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning graduate: %w", err)
		}
		graduates = append(graduates, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graduates: %w", err)
	}
	return graduates, nil
}

// GetByID retrieves a graduate by ID
func (r *GraduateRepository) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByProfileID retrieves the graduate linked to an account profile
func (r *GraduateRepository) GetByProfileID(ctx context.Context, profileID string) (*models.Graduate, error) {
	return r.getOne(ctx, squirrel.Eq{"perfil_id": profileID})
}

func (r *GraduateRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Graduate, error) {
	sql, args, err := psql.Select(graduateColumns...).From("graduados").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building graduate query: %w", err)
	}

	g, err := scanGraduate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrGraduateNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error retrieving graduate")
		return nil, fmt.Errorf("error retrieving graduate: %w", err)
	}
	return g, nil
}

// Create inserts a graduate and fills in the generated fields
func (r *GraduateRepository) Create(ctx context.Context, g *models.Graduate) error {
	sql, args, err := psql.Insert("graduados").
		Columns("perfil_id", "nombre", "apellido", "cedula", "email", "telefono", "direccion", "zona", "carrera", "anio_egreso").
		Values(g.ProfileID, g.FirstName, g.LastName, g.NationalID, g.Email, g.Phone, g.Address, g.Zone, g.Program, g.GraduationYear).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create graduate query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return r.mapWriteError(err, "creating")
	}
	return nil
}

// Update overwrites every mutable column of a graduate
func (r *GraduateRepository) Update(ctx context.Context, g *models.Graduate) error {
	sql, args, err := psql.Update("graduados").
		Set("perfil_id", g.ProfileID).
		Set("nombre", g.FirstName).
		Set("apellido", g.LastName).
		Set("cedula", g.NationalID).
		Set("email", g.Email).
		Set("telefono", g.Phone).
		Set("direccion", g.Address).
		Set("zona", g.Zone).
		Set("carrera", g.Program).
		Set("anio_egreso", g.GraduationYear).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": g.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update graduate query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&g.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.ErrGraduateNotFound
		}
		return r.mapWriteError(err, "updating")
	}
	return nil
}

// Delete removes a graduate; dependent rows cascade
func (r *GraduateRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("graduados").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete graduate query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("graduateID", id).Msg("Error deleting graduate")
		return fmt.Errorf("error deleting graduate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}
	return nil
}

// ListRecipientsByAreas returns the graduates whose preferences overlap areaIDs,
// one row per graduate.
func (r *GraduateRepository) ListRecipientsByAreas(ctx context.Context, areaIDs []int64) ([]models.Recipient, error) {
	if len(areaIDs) == 0 {
		return []models.Recipient{}, nil
	}

	sql, args, err := psql.Select("DISTINCT g.id", "g.nombre || ' ' || g.apellido", "g.email").
		From("graduados g").
		Join("graduado_areas ga ON ga.graduado_id = g.id").
		Where(squirrel.Eq{"ga.area_id": areaIDs}).
		OrderBy("g.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building recipient query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing notification recipients")
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]models.Recipient, 0)
	for rows.Next() {
		var rc models.Recipient
		if err := rows.Scan(&rc.GraduateID, &rc.Name, &rc.Email); err != nil {
			return nil, fmt.Errorf("error scanning recipient: %w", err)
		}
		recipients = append(recipients, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}
	return recipients, nil
}

func (r *GraduateRepository) mapWriteError(err error, op string) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, graduateNationalIDKey):
		return apperrors.ErrNationalIDExists
	case dberrors.IsUniqueViolation(err):
		return apperrors.NewConflictError("profile is already linked to another graduate")
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.NewCustomError(apperrors.ErrInvalidReference, "profile does not exist")
	}
	logger.Error().Err(err).Str("op", op).Msg("Error writing graduate")
	return fmt.Errorf("error %s graduate: %w", op, err)
}
