package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NotifyResponse reports how many announcement emails were queued
type NotifyResponse struct {
	Recipients int `json:"destinatarios"`
}

// WorkshopController handles workshop-related operations
type WorkshopController struct {
	workshopService services.WorkshopService
}

// NewWorkshopController creates a new WorkshopController
func NewWorkshopController(workshopService services.WorkshopService) *WorkshopController {
	return &WorkshopController{
		workshopService: workshopService,
	}
}

// GetAllWorkshops lists workshops
// @Summary List workshops
// @Description Retrieves workshops with their interest areas
// @Tags talleres
// @Produce json
// @Param facilitador_id query string false "Filter by facilitator"
// @Param publicado query bool false "Filter by publication state"
// @Param cancelado query bool false "Filter by cancellation state"
// @Success 200 {object} dto.APIResponse{data=[]models.Workshop} "Workshops retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /talleres [get]
func (c *WorkshopController) GetAllWorkshops(ctx *gin.Context) {
	published, ok := queryBool(ctx, "publicado")
	if !ok {
		return
	}
	cancelled, ok := queryBool(ctx, "cancelado")
	if !ok {
		return
	}
	facilitatorID, ok := queryUUID(ctx, "facilitador_id")
	if !ok {
		return
	}
	filter := models.WorkshopFilter{
		FacilitatorID: facilitatorID,
		Published:     published,
		Cancelled:     cancelled,
	}

	workshops, err := c.workshopService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, workshops)
}

// GetCatalog lists the published, non-cancelled workshops
// @Summary Workshop catalog
// @Tags talleres
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Workshop}
// @Router /catalogo [get]
func (c *WorkshopController) GetCatalog(ctx *gin.Context) {
	workshops, err := c.workshopService.Catalog(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, workshops)
}

// GetWorkshopByID retrieves a workshop with its areas_ids
// @Summary Get workshop by ID
// @Tags talleres
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=models.Workshop}
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /talleres/{id} [get]
func (c *WorkshopController) GetWorkshopByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	workshop, err := c.workshopService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, workshop)
}

// CreateWorkshop handles workshop creation. Publishing on create announces
// the workshop to interested graduates.
// @Summary Create a workshop
// @Tags talleres
// @Accept json
// @Produce json
// @Param request body dto.CreateWorkshopRequest true "Workshop information"
// @Success 201 {object} dto.APIResponse{data=models.Workshop}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /talleres [post]
func (c *WorkshopController) CreateWorkshop(ctx *gin.Context) {
	var req dto.CreateWorkshopRequest
	if !bindJSON(ctx, &req) {
		return
	}

	workshop, err := c.workshopService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, workshop)
}

// UpdateWorkshop applies a partial update. areas_ids: [] removes every area;
// omitting areas_ids keeps them.
// @Summary Update a workshop
// @Tags talleres
// @Accept json
// @Produce json
// @Param id path int true "Workshop ID"
// @Param request body dto.UpdateWorkshopRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Workshop}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /talleres/{id} [put]
func (c *WorkshopController) UpdateWorkshop(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateWorkshopRequest
	if !bindJSON(ctx, &req) {
		return
	}

	workshop, err := c.workshopService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, workshop)
}

// DeleteWorkshop removes a workshop
// @Summary Delete a workshop
// @Tags talleres
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /talleres/{id} [delete]
func (c *WorkshopController) DeleteWorkshop(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.workshopService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Workshop deleted successfully")
}

// NotifyWorkshop queues the announcement email again
// @Summary Announce a workshop
// @Tags talleres
// @Param id path int true "Workshop ID"
// @Success 202 {object} dto.APIResponse{data=NotifyResponse}
// @Failure 400 {object} dto.ErrorResponse "Workshop is cancelled"
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /talleres/{id}/notificar [post]
func (c *WorkshopController) NotifyWorkshop(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	queued, err := c.workshopService.Notify(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusAccepted, NotifyResponse{Recipients: queued})
}

// GetWorkshopAttendance lists every attendance row of a workshop
// @Summary Workshop attendance
// @Tags talleres
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance}
// @Router /talleres/{id}/asistencias [get]
func (c *WorkshopController) GetWorkshopAttendance(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	rows, err := c.workshopService.ListAttendance(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}
