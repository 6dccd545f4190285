package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/db"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/dberrors"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const attendanceUpsertSuffix = "ON CONFLICT (inscripcion_id, fecha_clase) DO UPDATE " +
	"SET estado = EXCLUDED.estado, updated_at = NOW() " +
	"RETURNING id, to_char(fecha_clase, 'YYYY-MM-DD'), updated_at"

// AttendanceRepository handles database operations for daily attendance
type AttendanceRepository struct {
	db db.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(pool db.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: pool}
}

// Upsert records the status of one class day. Repeating the call for the same
// enrollment and date overwrites the status and keeps a single row.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	return r.upsert(ctx, r.db, a)
}

// UpsertBatch upserts every entry inside one transaction
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, entries []*models.Attendance) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, a := range entries {
			if err := r.upsert(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttendanceRepository) upsert(ctx context.Context, q db.DBTX, a *models.Attendance) error {
	classDate, err := helpers.ParseDate(a.ClassDate)
	if err != nil {
		return apperrors.NewValidationError("fecha_clase must use the YYYY-MM-DD format")
	}

	sql, args, err := psql.Insert("asistencias").
		Columns("inscripcion_id", "fecha_clase", "estado").
		Values(a.EnrollmentID, classDate, a.Status).
		Suffix(attendanceUpsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building attendance upsert query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.ClassDate, &a.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("invalid attendance status")
		}
		logger.Error().Err(err).Int64("enrollmentID", a.EnrollmentID).Str("date", a.ClassDate).Msg("Error upserting attendance")
		return fmt.Errorf("error upserting attendance: %w", err)
	}
	return nil
}

// ListByEnrollment returns the attendance of one enrollment ordered by date
func (r *AttendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Attendance, error) {
	query := psql.Select("a.id", "a.inscripcion_id", "to_char(a.fecha_clase, 'YYYY-MM-DD')", "a.estado", "i.graduado_id", "a.updated_at").
		From("asistencias a").
		Join("inscripciones i ON i.id = a.inscripcion_id").
		Where(squirrel.Eq{"a.inscripcion_id": enrollmentID}).
		OrderBy("a.fecha_clase")
	return r.list(ctx, query)
}

// ListByWorkshop returns the attendance of every enrollment of a workshop
func (r *AttendanceRepository) ListByWorkshop(ctx context.Context, workshopID int64) ([]*models.Attendance, error) {
	query := psql.Select("a.id", "a.inscripcion_id", "to_char(a.fecha_clase, 'YYYY-MM-DD')", "a.estado", "i.graduado_id", "a.updated_at").
		From("asistencias a").
		Join("inscripciones i ON i.id = a.inscripcion_id").
		Where(squirrel.Eq{"i.taller_id": workshopID}).
		OrderBy("a.fecha_clase", "a.inscripcion_id")
	return r.list(ctx, query)
}

func (r *AttendanceRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Attendance, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing attendance")
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Attendance, 0)
	for rows.Next() {
		var a models.Attendance
		var graduateID int64
		if err := rows.Scan(&a.ID, &a.EnrollmentID, &a.ClassDate, &a.Status, &graduateID, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		a.GraduateID = &graduateID
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return records, nil
}

// Delete removes one attendance row
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("asistencias").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete attendance query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("attendanceID", id).Msg("Error deleting attendance")
		return fmt.Errorf("error deleting attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}
