package services

import (
	"context"
	"fmt"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"golang.org/x/sync/errgroup"
)

// ReportOverview bundles every admin report
type ReportOverview struct {
	ByProgram   []models.ProgramCount            `json:"graduados_por_carrera"`
	ByZone      []models.ZoneCount               `json:"graduados_por_zona"`
	Enrollments []models.WorkshopEnrollmentStats `json:"inscripciones_por_taller"`
	Attendance  []models.WorkshopAttendanceStats `json:"asistencia_por_taller"`
}

// ReportService defines the interface for admin reports
type ReportService interface {
	GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error)
	GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error)
	EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error)
	AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error)
	Overview(ctx context.Context) (*ReportOverview, error)
}

type reportServiceImpl struct {
	reports ReportStore
}

// NewReportService creates a new report service instance
func NewReportService(reports ReportStore) ReportService {
	return &reportServiceImpl{reports: reports}
}

func (s *reportServiceImpl) GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error) {
	rows, err := s.reports.GraduatesByProgram(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building graduates by program report: %w", err)
	}
	return rows, nil
}

func (s *reportServiceImpl) GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error) {
	rows, err := s.reports.GraduatesByZone(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building graduates by zone report: %w", err)
	}
	return rows, nil
}

func (s *reportServiceImpl) EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error) {
	rows, err := s.reports.EnrollmentsByWorkshop(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building enrollments report: %w", err)
	}
	return rows, nil
}

func (s *reportServiceImpl) AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error) {
	rows, err := s.reports.AttendanceByWorkshop(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building attendance report: %w", err)
	}
	return rows, nil
}

// Overview runs the four report queries concurrently; the first failure
// cancels the rest.
func (s *reportServiceImpl) Overview(ctx context.Context) (*ReportOverview, error) {
	var out ReportOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.ByProgram, err = s.GraduatesByProgram(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ByZone, err = s.GraduatesByZone(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Enrollments, err = s.EnrollmentsByWorkshop(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Attendance, err = s.AttendanceByWorkshop(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
