package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// GraduateController handles graduate-related operations
type GraduateController struct {
	graduateService services.GraduateService
}

// NewGraduateController creates a new GraduateController
func NewGraduateController(graduateService services.GraduateService) *GraduateController {
	return &GraduateController{
		graduateService: graduateService,
	}
}

// GetAllGraduates lists graduates
// @Summary List graduates
// @Description Retrieves graduates, optionally filtered by zone and program
// @Tags graduados
// @Produce json
// @Param zona query string false "Filter by zone"
// @Param carrera query string false "Filter by program"
// @Success 200 {object} dto.APIResponse{data=[]models.Graduate} "Graduates retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /graduados [get]
func (c *GraduateController) GetAllGraduates(ctx *gin.Context) {
	filter := models.GraduateFilter{
		Zone:    helpers.OptionalStringQuery(ctx, "zona"),
		Program: helpers.OptionalStringQuery(ctx, "carrera"),
	}

	graduates, err := c.graduateService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, graduates)
}

// GetGraduateByID retrieves a graduate by ID
// @Summary Get graduate by ID
// @Tags graduados
// @Produce json
// @Param id path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Graduate retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid graduate ID"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduados/{id} [get]
func (c *GraduateController) GetGraduateByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	graduate, err := c.graduateService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, graduate)
}

// CreateGraduate handles graduate creation
// @Summary Create a graduate
// @Tags graduados
// @Accept json
// @Produce json
// @Param request body dto.CreateGraduateRequest true "Graduate information"
// @Success 201 {object} dto.APIResponse{data=models.Graduate} "Graduate created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "National ID already registered"
// @Router /graduados [post]
func (c *GraduateController) CreateGraduate(ctx *gin.Context) {
	var req dto.CreateGraduateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	graduate, err := c.graduateService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, graduate)
}

// UpdateGraduate applies a partial update
// @Summary Update a graduate
// @Tags graduados
// @Accept json
// @Produce json
// @Param id path int true "Graduate ID"
// @Param request body dto.UpdateGraduateRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Graduate updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduados/{id} [put]
func (c *GraduateController) UpdateGraduate(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateGraduateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	graduate, err := c.graduateService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, graduate)
}

// DeleteGraduate removes a graduate and, by cascade, their dependent records
// @Summary Delete a graduate
// @Tags graduados
// @Param id path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Graduate deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduados/{id} [delete]
func (c *GraduateController) DeleteGraduate(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.graduateService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Graduate deleted successfully")
}

// GetGraduateEnrollments lists the enrollments of one graduate
// @Summary List graduate enrollments
// @Tags graduados
// @Produce json
// @Param id path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduados/{id}/inscripciones [get]
func (c *GraduateController) GetGraduateEnrollments(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.graduateService.ListEnrollments(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, enrollments)
}
