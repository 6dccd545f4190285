package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// WorkshopService defines the interface for workshop-related operations
type WorkshopService interface {
	List(ctx context.Context, filter models.WorkshopFilter) ([]*models.Workshop, error)
	Catalog(ctx context.Context) ([]*models.Workshop, error)
	GetByID(ctx context.Context, id int64) (*models.Workshop, error)
	Create(ctx context.Context, req dto.CreateWorkshopRequest) (*models.Workshop, error)
	Update(ctx context.Context, id int64, req dto.UpdateWorkshopRequest) (*models.Workshop, error)
	Delete(ctx context.Context, id int64) error
	Notify(ctx context.Context, id int64) (int, error)
	ListAttendance(ctx context.Context, id int64) ([]*models.Attendance, error)
}

type workshopServiceImpl struct {
	workshops     WorkshopStore
	attendance    AttendanceStore
	notifications NotificationService
	logger        zerolog.Logger
}

// NewWorkshopService creates a new workshop service instance
func NewWorkshopService(workshops WorkshopStore, attendance AttendanceStore, notifications NotificationService, logger zerolog.Logger) WorkshopService {
	return &workshopServiceImpl{
		workshops:     workshops,
		attendance:    attendance,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *workshopServiceImpl) List(ctx context.Context, filter models.WorkshopFilter) ([]*models.Workshop, error) {
	workshops, err := s.workshops.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving workshops: %w", err)
	}
	return workshops, nil
}

// Catalog lists the published workshops that are still running
func (s *workshopServiceImpl) Catalog(ctx context.Context) ([]*models.Workshop, error) {
	published, cancelled := true, false
	return s.List(ctx, models.WorkshopFilter{Published: &published, Cancelled: &cancelled})
}

func (s *workshopServiceImpl) GetByID(ctx context.Context, id int64) (*models.Workshop, error) {
	return s.workshops.GetByID(ctx, id)
}

func (s *workshopServiceImpl) Create(ctx context.Context, req dto.CreateWorkshopRequest) (*models.Workshop, error) {
	w := &models.Workshop{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Objectives:    req.Objectives,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Modality:      models.ModalityOnSite,
		FacilitatorID: req.FacilitatorID,
		AreaIDs:       req.AreaIDs,
	}
	if req.Capacity != nil {
		w.Capacity = *req.Capacity
	}
	if req.Modality != nil {
		w.Modality = models.Modality(*req.Modality)
	}
	if req.Published != nil {
		w.Published = *req.Published
	}
	if w.AreaIDs == nil {
		w.AreaIDs = []int64{}
	}

	if err := validateWorkshop(w); err != nil {
		return nil, err
	}
	if err := s.workshops.Create(ctx, w); err != nil {
		return nil, err
	}

	if w.Published {
		s.announce(ctx, w)
	}
	return w, nil
}

// Update applies the present fields. AreaIDs nil leaves associations alone;
// an empty list clears them.
func (s *workshopServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateWorkshopRequest) (*models.Workshop, error) {
	w, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasPublished := w.Published

	if req.Title != nil {
		w.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		w.Description = req.Description
	}
	if req.Objectives != nil {
		w.Objectives = req.Objectives
	}
	if req.StartsAt != nil {
		w.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		w.EndsAt = req.EndsAt
	}
	if req.Capacity != nil {
		w.Capacity = *req.Capacity
	}
	if req.Modality != nil {
		w.Modality = models.Modality(*req.Modality)
	}
	if req.Published != nil {
		w.Published = *req.Published
	}
	if req.Cancelled != nil {
		w.Cancelled = *req.Cancelled
	}
	if req.FacilitatorID != nil {
		w.FacilitatorID = req.FacilitatorID
	}

	if err := validateWorkshop(w); err != nil {
		return nil, err
	}
	if err := s.workshops.Update(ctx, w, req.AreaIDs); err != nil {
		return nil, err
	}

	if !wasPublished && w.Published && !w.Cancelled {
		s.announce(ctx, w)
	}
	return w, nil
}

func (s *workshopServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.workshops.Delete(ctx, id)
}

// Notify re-sends the announcement of a workshop on demand
func (s *workshopServiceImpl) Notify(ctx context.Context, id int64) (int, error) {
	w, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if w.Cancelled {
		return 0, apperrors.ErrWorkshopCancelled
	}
	return s.notifications.NotifyNewWorkshop(ctx, w)
}

func (s *workshopServiceImpl) ListAttendance(ctx context.Context, id int64) ([]*models.Attendance, error) {
	if _, err := s.workshops.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.attendance.ListByWorkshop(ctx, id)
}

// announce triggers the publication notification; failures are only logged
func (s *workshopServiceImpl) announce(ctx context.Context, w *models.Workshop) {
	if _, err := s.notifications.NotifyNewWorkshop(ctx, w); err != nil {
		s.logger.Error().Err(err).Int64("workshopID", w.ID).Msg("Failed to queue workshop announcement")
	}
}

func validateWorkshop(w *models.Workshop) error {
	if w.Title == "" {
		return apperrors.NewValidationError("titulo is required")
	}
	if w.StartsAt != nil && w.EndsAt != nil && w.EndsAt.Before(*w.StartsAt) {
		return apperrors.ErrInvalidSchedule
	}
	if w.Capacity < 0 {
		return apperrors.NewValidationError("cupo must not be negative")
	}
	if !w.Modality.Valid() {
		return apperrors.NewValidationError("modalidad must be one of presencial, virtual, hibrida")
	}
	return nil
}
