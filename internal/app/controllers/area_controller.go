package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AreaController handles interest areas and graduate preferences
type AreaController struct {
	areaService services.AreaService
}

// NewAreaController creates a new AreaController
func NewAreaController(areaService services.AreaService) *AreaController {
	return &AreaController{
		areaService: areaService,
	}
}

// GetAllAreas lists interest areas
// @Summary List interest areas
// @Tags areas
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Area}
// @Router /areas [get]
func (c *AreaController) GetAllAreas(ctx *gin.Context) {
	areas, err := c.areaService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, areas)
}

// CreateArea handles interest area creation
// @Summary Create an interest area
// @Tags areas
// @Accept json
// @Produce json
// @Param request body dto.CreateAreaRequest true "Area information"
// @Success 201 {object} dto.APIResponse{data=models.Area}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Area name already exists"
// @Router /areas [post]
func (c *AreaController) CreateArea(ctx *gin.Context) {
	var req dto.CreateAreaRequest
	if !bindJSON(ctx, &req) {
		return
	}

	area, err := c.areaService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, area)
}

// UpdateArea renames or re-describes an area
func (c *AreaController) UpdateArea(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateAreaRequest
	if !bindJSON(ctx, &req) {
		return
	}

	area, err := c.areaService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, area)
}

// DeleteArea removes an area together with its workshop and preference links
func (c *AreaController) DeleteArea(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.areaService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Area deleted successfully")
}

// GetPreferences lists the interest areas chosen by a graduate
// @Summary Graduate preferences
// @Tags preferencias
// @Produce json
// @Param graduadoId path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Area}
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /preferencias/{graduadoId} [get]
func (c *AreaController) GetPreferences(ctx *gin.Context) {
	graduateID, ok := pathID(ctx, "graduadoId")
	if !ok {
		return
	}

	areas, err := c.areaService.ListPreferences(ctx.Request.Context(), graduateID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, areas)
}

// ReplacePreferences swaps the full preference set; an empty list clears it
// @Summary Replace graduate preferences
// @Tags preferencias
// @Accept json
// @Produce json
// @Param request body dto.ReplacePreferencesRequest true "Graduate and area IDs"
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unknown area"
// @Router /preferencias [post]
func (c *AreaController) ReplacePreferences(ctx *gin.Context) {
	var req dto.ReplacePreferencesRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.areaService.ReplacePreferences(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}
