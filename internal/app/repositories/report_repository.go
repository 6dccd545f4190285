package repositories

import (
	"context"
	"fmt"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/db"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
)

// ReportRepository runs the aggregate queries behind the admin reports
type ReportRepository struct {
	db db.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool db.Pool) *ReportRepository {
	return &ReportRepository{db: pool}
}

// GraduatesByProgram counts graduates per program; graduates without one are
// grouped under "Sin carrera".
func (r *ReportRepository) GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error) {
	sql, args, err := psql.Select("COALESCE(NULLIF(carrera, ''), 'Sin carrera') AS carrera", "COUNT(*) AS cantidad").
		From("graduados").
		GroupBy("1").
		OrderBy("cantidad DESC", "carrera").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building graduates by program query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error running graduates by program report")
		return nil, fmt.Errorf("error running graduates by program report: %w", err)
	}
	defer rows.Close()

	result := make([]models.ProgramCount, 0)
	for rows.Next() {
		var row models.ProgramCount
		if err := rows.Scan(&row.Program, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning graduates by program: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GraduatesByZone counts graduates per zone
func (r *ReportRepository) GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error) {
	sql, args, err := psql.Select("COALESCE(NULLIF(zona, ''), 'Sin zona') AS zona", "COUNT(*) AS cantidad").
		From("graduados").
		GroupBy("1").
		OrderBy("cantidad DESC", "zona").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building graduates by zone query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error running graduates by zone report")
		return nil, fmt.Errorf("error running graduates by zone report: %w", err)
	}
	defer rows.Close()

	result := make([]models.ZoneCount, 0)
	for rows.Next() {
		var row models.ZoneCount
		if err := rows.Scan(&row.Zone, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning graduates by zone: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// EnrollmentsByWorkshop counts enrollments and certificates per workshop
func (r *ReportRepository) EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error) {
	sql, args, err := psql.Select(
		"t.id",
		"t.titulo",
		"COUNT(i.id) AS inscritos",
		"COUNT(i.id) FILTER (WHERE i.estado = 'certificado') AS certificados",
	).
		From("talleres t").
		LeftJoin("inscripciones i ON i.taller_id = t.id").
		GroupBy("t.id", "t.titulo").
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building enrollments by workshop query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error running enrollments by workshop report")
		return nil, fmt.Errorf("error running enrollments by workshop report: %w", err)
	}
	defer rows.Close()

	result := make([]models.WorkshopEnrollmentStats, 0)
	for rows.Next() {
		var row models.WorkshopEnrollmentStats
		if err := rows.Scan(&row.WorkshopID, &row.Title, &row.Enrolled, &row.Certified); err != nil {
			return nil, fmt.Errorf("error scanning enrollments by workshop: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// AttendanceByWorkshop counts attendance rows per workshop and status
func (r *ReportRepository) AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error) {
	sql, args, err := psql.Select(
		"t.id",
		"t.titulo",
		"COUNT(a.id) FILTER (WHERE a.estado = 'asistio') AS asistio",
		"COUNT(a.id) FILTER (WHERE a.estado = 'ausente') AS ausente",
		"COUNT(a.id) FILTER (WHERE a.estado = 'no_dictada') AS no_dictada",
	).
		From("talleres t").
		LeftJoin("inscripciones i ON i.taller_id = t.id").
		LeftJoin("asistencias a ON a.inscripcion_id = i.id").
		GroupBy("t.id", "t.titulo").
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building attendance by workshop query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error running attendance by workshop report")
		return nil, fmt.Errorf("error running attendance by workshop report: %w", err)
	}
	defer rows.Close()

	result := make([]models.WorkshopAttendanceStats, 0)
	for rows.Next() {
		var row models.WorkshopAttendanceStats
		if err := rows.Scan(&row.WorkshopID, &row.Title, &row.Present, &row.Absent, &row.NotHeld); err != nil {
			return nil, fmt.Errorf("error scanning attendance by workshop: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
