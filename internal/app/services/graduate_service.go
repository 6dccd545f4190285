package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
)

// GraduateService defines the interface for graduate-related operations
type GraduateService interface {
	List(ctx context.Context, filter models.GraduateFilter) ([]*models.Graduate, error)
	GetByID(ctx context.Context, id int64) (*models.Graduate, error)
	Create(ctx context.Context, req dto.CreateGraduateRequest) (*models.Graduate, error)
	Update(ctx context.Context, id int64, req dto.UpdateGraduateRequest) (*models.Graduate, error)
	Delete(ctx context.Context, id int64) error
	ListEnrollments(ctx context.Context, id int64) ([]*models.Enrollment, error)
}

type graduateServiceImpl struct {
	graduates   GraduateStore
	enrollments EnrollmentStore
}

// NewGraduateService creates a new graduate service instance
func NewGraduateService(graduates GraduateStore, enrollments EnrollmentStore) GraduateService {
	return &graduateServiceImpl{
		graduates:   graduates,
		enrollments: enrollments,
	}
}

func (s *graduateServiceImpl) List(ctx context.Context, filter models.GraduateFilter) ([]*models.Graduate, error) {
	graduates, err := s.graduates.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving graduates: %w", err)
	}
	return graduates, nil
}

func (s *graduateServiceImpl) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid graduate ID", apperrors.ErrValidationFailed)
	}
	return s.graduates.GetByID(ctx, id)
}

func (s *graduateServiceImpl) Create(ctx context.Context, req dto.CreateGraduateRequest) (*models.Graduate, error) {
	g := &models.Graduate{
		ProfileID:      req.ProfileID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		NationalID:     strings.TrimSpace(req.NationalID),
		Email:          strings.TrimSpace(req.Email),
		Phone:          req.Phone,
		Address:        req.Address,
		Zone:           req.Zone,
		Program:        req.Program,
		GraduationYear: req.GraduationYear,
	}
	if err := validateGraduate(g); err != nil {
		return nil, err
	}

	if err := s.graduates.Create(ctx, g); err != nil {
		if errors.Is(err, apperrors.ErrNationalIDExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating graduate: %w", err)
	}
	return g, nil
}

func (s *graduateServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateGraduateRequest) (*models.Graduate, error) {
	g, err := s.graduates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProfileID != nil {
		g.ProfileID = req.ProfileID
	}
	if req.FirstName != nil {
		g.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		g.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.NationalID != nil {
		g.NationalID = strings.TrimSpace(*req.NationalID)
	}
	if req.Email != nil {
		g.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		g.Phone = req.Phone
	}
	if req.Address != nil {
		g.Address = req.Address
	}
	if req.Zone != nil {
		g.Zone = req.Zone
	}
	if req.Program != nil {
		g.Program = req.Program
	}
	if req.GraduationYear != nil {
		g.GraduationYear = req.GraduationYear
	}

	if err := validateGraduate(g); err != nil {
		return nil, err
	}
	if err := s.graduates.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *graduateServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.graduates.Delete(ctx, id)
}

// ListEnrollments returns the enrollments of an existing graduate
func (s *graduateServiceImpl) ListEnrollments(ctx context.Context, id int64) ([]*models.Enrollment, error) {
	if _, err := s.graduates.GetByID(ctx, id); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{GraduateID: &id})
	if err != nil {
		return nil, fmt.Errorf("error retrieving graduate enrollments: %w", err)
	}
	return enrollments, nil
}

func validateGraduate(g *models.Graduate) error {
	if g.FirstName == "" || g.LastName == "" {
		return apperrors.NewValidationError("nombre and apellido are required")
	}
	if g.NationalID == "" {
		return apperrors.NewValidationError("cedula is required")
	}
	if g.Email == "" {
		return apperrors.NewValidationError("email is required")
	}
	return nil
}
