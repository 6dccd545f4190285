package services

import (
	"context"
	"fmt"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
)

// AttendanceService defines the interface for daily attendance operations
type AttendanceService interface {
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Attendance, error)
	Upsert(ctx context.Context, req dto.UpsertAttendanceRequest) (*models.Attendance, error)
	UpsertBatch(ctx context.Context, req dto.BatchAttendanceRequest) ([]*models.Attendance, error)
	Delete(ctx context.Context, id int64) error
}

type attendanceServiceImpl struct {
	attendance AttendanceStore
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(attendance AttendanceStore) AttendanceService {
	return &attendanceServiceImpl{attendance: attendance}
}

func (s *attendanceServiceImpl) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Attendance, error) {
	if enrollmentID <= 0 {
		return nil, apperrors.NewValidationError("inscripcion_id is required")
	}
	return s.attendance.ListByEnrollment(ctx, enrollmentID)
}

// Upsert records the status of one class day; repeating the call for the
// same enrollment and date overwrites the status.
func (s *attendanceServiceImpl) Upsert(ctx context.Context, req dto.UpsertAttendanceRequest) (*models.Attendance, error) {
	a, err := attendanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.attendance.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpsertBatch stores every entry or none of them
func (s *attendanceServiceImpl) UpsertBatch(ctx context.Context, req dto.BatchAttendanceRequest) ([]*models.Attendance, error) {
	if len(req.Entries) == 0 {
		return nil, apperrors.NewValidationError("asistencias must not be empty")
	}

	entries := make([]*models.Attendance, 0, len(req.Entries))
	for i, entry := range req.Entries {
		a, err := attendanceFromRequest(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, a)
	}

	if err := s.attendance.UpsertBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *attendanceServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.attendance.Delete(ctx, id)
}

func attendanceFromRequest(req dto.UpsertAttendanceRequest) (*models.Attendance, error) {
	if req.EnrollmentID <= 0 {
		return nil, apperrors.NewValidationError("inscripcion_id is required")
	}
	if _, err := helpers.ParseDate(req.ClassDate); err != nil {
		return nil, apperrors.NewValidationError("fecha_clase must use the YYYY-MM-DD format")
	}
	status := models.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.NewValidationError("estado must be one of asistio, ausente, no_dictada")
	}
	return &models.Attendance{
		EnrollmentID: req.EnrollmentID,
		ClassDate:    req.ClassDate,
		Status:       status,
	}, nil
}
