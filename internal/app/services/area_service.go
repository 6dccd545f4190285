package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
)

// AreaService defines the interface for interest area and preference operations
type AreaService interface {
	List(ctx context.Context) ([]*models.Area, error)
	Create(ctx context.Context, req dto.CreateAreaRequest) (*models.Area, error)
	Update(ctx context.Context, id int64, req dto.UpdateAreaRequest) (*models.Area, error)
	Delete(ctx context.Context, id int64) error

	ListPreferences(ctx context.Context, graduateID int64) ([]*models.Area, error)
	ReplacePreferences(ctx context.Context, req dto.ReplacePreferencesRequest) (*dto.PreferencesResponse, error)
}

type areaServiceImpl struct {
	areas       AreaStore
	preferences PreferenceStore
	graduates   GraduateStore
}

// NewAreaService creates a new area service instance
func NewAreaService(areas AreaStore, preferences PreferenceStore, graduates GraduateStore) AreaService {
	return &areaServiceImpl{
		areas:       areas,
		preferences: preferences,
		graduates:   graduates,
	}
}

func (s *areaServiceImpl) List(ctx context.Context) ([]*models.Area, error) {
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving interest areas: %w", err)
	}
	return areas, nil
}

func (s *areaServiceImpl) Create(ctx context.Context, req dto.CreateAreaRequest) (*models.Area, error) {
	a := &models.Area{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if a.Name == "" {
		return nil, apperrors.NewValidationError("nombre_area is required")
	}
	if err := s.areas.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *areaServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateAreaRequest) (*models.Area, error) {
	a, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if a.Name == "" {
		return nil, apperrors.NewValidationError("nombre_area must not be empty")
	}
	if err := s.areas.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an area even when workshops or graduates reference it
func (s *areaServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.areas.Delete(ctx, id)
}

func (s *areaServiceImpl) ListPreferences(ctx context.Context, graduateID int64) ([]*models.Area, error) {
	if _, err := s.graduates.GetByID(ctx, graduateID); err != nil {
		return nil, err
	}
	return s.preferences.List(ctx, graduateID)
}

// ReplacePreferences swaps the whole preference set of a graduate; an empty
// list clears it.
func (s *areaServiceImpl) ReplacePreferences(ctx context.Context, req dto.ReplacePreferencesRequest) (*dto.PreferencesResponse, error) {
	if req.GraduateID <= 0 {
		return nil, apperrors.NewValidationError("graduado_id is required")
	}
	ids := make([]int64, 0, len(req.PreferenceIDs))
	seen := make(map[int64]struct{}, len(req.PreferenceIDs))
	for _, id := range req.PreferenceIDs {
		if id <= 0 {
			return nil, apperrors.NewValidationError("preferenceIds must be positive")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := s.preferences.Replace(ctx, req.GraduateID, ids); err != nil {
		return nil, err
	}
	return &dto.PreferencesResponse{GraduateID: req.GraduateID, PreferenceIDs: ids}, nil
}
