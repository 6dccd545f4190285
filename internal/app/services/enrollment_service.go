package services

import (
	"context"
	"fmt"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
)

// EnrollmentService defines the interface for enrollment-related operations
type EnrollmentService interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error)
	Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
}

type enrollmentServiceImpl struct {
	enrollments EnrollmentStore
	workshops   WorkshopStore
	graduates   GraduateStore
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(enrollments EnrollmentStore, workshops WorkshopStore, graduates GraduateStore) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollments: enrollments,
		workshops:   workshops,
		graduates:   graduates,
	}
}

func (s *enrollmentServiceImpl) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown enrollment status")
	}
	enrollments, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

// Create enrolls a graduate in a workshop. The existence check gives a fast
// 409; the unique constraint catches concurrent duplicates.
func (s *enrollmentServiceImpl) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if req.GraduateID <= 0 || req.WorkshopID <= 0 {
		return nil, apperrors.NewValidationError("graduado_id and taller_id are required")
	}

	if _, err := s.graduates.GetByID(ctx, req.GraduateID); err != nil {
		return nil, err
	}
	workshop, err := s.workshops.GetByID(ctx, req.WorkshopID)
	if err != nil {
		return nil, err
	}
	if workshop.Cancelled {
		return nil, apperrors.ErrWorkshopCancelled
	}

	exists, err := s.enrollments.Exists(ctx, req.GraduateID, req.WorkshopID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEnrollmentExists
	}

	if workshop.Capacity > 0 {
		active, err := s.enrollments.CountActive(ctx, workshop.ID)
		if err != nil {
			return nil, fmt.Errorf("error counting enrollments: %w", err)
		}
		if active >= workshop.Capacity {
			return nil, apperrors.ErrWorkshopFull
		}
	}

	e := &models.Enrollment{GraduateID: req.GraduateID, WorkshopID: req.WorkshopID}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update changes the status and/or certificate reference of an enrollment
func (s *enrollmentServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := models.EnrollmentStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown enrollment status")
		}
		e.Status = status
	}
	if req.CertificatePath != nil {
		e.CertificatePath = req.CertificatePath
		if *req.CertificatePath == "" {
			e.CertificatePath = nil
		}
	}

	if err := s.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.enrollments.Delete(ctx, id)
}
