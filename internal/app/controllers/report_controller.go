package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ReportController serves the admin reports
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// GraduatesByProgram counts graduates per program
// @Summary Graduates by program
// @Description Rows come inside the standard envelope: {"success":true,"data":[{"carrera":"...","cantidad":3}],"timestamp":"..."}
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramCount}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Administrator role required"
// @Router /reportes/graduados-por-carrera [get]
func (c *ReportController) GraduatesByProgram(ctx *gin.Context) {
	rows, err := c.reportService.GraduatesByProgram(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

// GraduatesByZone counts graduates per zone
// @Summary Graduates by zone
// @Description Rows come inside the standard envelope under "data"
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ZoneCount}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Administrator role required"
// @Router /reportes/graduados-por-zona [get]
func (c *ReportController) GraduatesByZone(ctx *gin.Context) {
	rows, err := c.reportService.GraduatesByZone(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

// EnrollmentsByWorkshop counts enrollments and certificates per workshop
// @Summary Enrollments by workshop
// @Description Rows come inside the standard envelope under "data"
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.WorkshopEnrollmentStats}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Administrator role required"
// @Router /reportes/inscripciones-por-taller [get]
func (c *ReportController) EnrollmentsByWorkshop(ctx *gin.Context) {
	rows, err := c.reportService.EnrollmentsByWorkshop(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

// AttendanceByWorkshop counts attendance rows per workshop and status
// @Summary Attendance by workshop
// @Description Rows come inside the standard envelope under "data"
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.WorkshopAttendanceStats}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Administrator role required"
// @Router /reportes/asistencia-por-taller [get]
func (c *ReportController) AttendanceByWorkshop(ctx *gin.Context) {
	rows, err := c.reportService.AttendanceByWorkshop(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

// Overview bundles every report in one response
// @Summary Reports overview
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=services.ReportOverview}
// @Router /reportes/resumen [get]
func (c *ReportController) Overview(ctx *gin.Context) {
	overview, err := c.reportService.Overview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, overview)
}
