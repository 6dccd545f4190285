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

// EnrollmentUniqueKey is the constraint that keeps one enrollment per
// graduate and workshop.
const EnrollmentUniqueKey = "inscripciones_graduado_taller_key"

var enrollmentColumns = []string{
	"id", "graduado_id", "taller_id", "estado", "certificado_path", "created_at", "updated_at",
}

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db db.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(pool db.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: pool}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := row.Scan(&e.ID, &e.GraduateID, &e.WorkshopID, &e.Status, &e.CertificatePath, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns the enrollments matching the filter
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	query := psql.Select(enrollmentColumns...).From("inscripciones").OrderBy("created_at DESC", "id DESC")
	if filter.GraduateID != nil {
		query = query.Where(squirrel.Eq{"graduado_id": *filter.GraduateID})
	}
	if filter.WorkshopID != nil {
		query = query.Where(squirrel.Eq{"taller_id": *filter.WorkshopID})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"estado": *filter.Status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building enrollment list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing enrollments")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}
	return enrollments, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := psql.Select(enrollmentColumns...).From("inscripciones").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building enrollment query: %w", err)
	}

	e, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error retrieving enrollment")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

// Exists reports whether the graduate is already enrolled in the workshop
func (r *EnrollmentRepository) Exists(ctx context.Context, graduateID, workshopID int64) (bool, error) {
	sql, args, err := psql.Select("1").From("inscripciones").
		Where(squirrel.Eq{"graduado_id": graduateID, "taller_id": workshopID}).
		Prefix("SELECT EXISTS(").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building enrollment exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("graduateID", graduateID).Int64("workshopID", workshopID).Msg("Error checking enrollment")
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// CountActive counts the enrollments of a workshop that still hold a seat
func (r *EnrollmentRepository) CountActive(ctx context.Context, workshopID int64) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From("inscripciones").
		Where(squirrel.Eq{"taller_id": workshopID}).
		Where(squirrel.NotEq{"estado": models.EnrollmentWithdrawn}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building enrollment count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}

// Create inserts an enrollment with status "inscrito". A concurrent duplicate
// is rejected by the unique constraint and reported as ErrEnrollmentExists.
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	e.Status = models.EnrollmentEnrolled
	sql, args, err := psql.Insert("inscripciones").
		Columns("graduado_id", "taller_id", "estado").
		Values(e.GraduateID, e.WorkshopID, e.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create enrollment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, EnrollmentUniqueKey):
			return apperrors.ErrEnrollmentExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "graduate or workshop does not exist")
		}
		logger.Error().Err(err).Int64("graduateID", e.GraduateID).Int64("workshopID", e.WorkshopID).Msg("Error creating enrollment")
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	return nil
}

// Update stores the status and certificate reference of an enrollment
func (r *EnrollmentRepository) Update(ctx context.Context, e *models.Enrollment) error {
	sql, args, err := psql.Update("inscripciones").
		Set("estado", e.Status).
		Set("certificado_path", e.CertificatePath).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update enrollment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("invalid enrollment status")
		}
		logger.Error().Err(err).Int64("enrollmentID", e.ID).Msg("Error updating enrollment")
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment; its attendance rows cascade
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("inscripciones").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error deleting enrollment")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}
