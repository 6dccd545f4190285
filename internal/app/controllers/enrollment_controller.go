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

// EnrollmentController handles enrollment and attendance operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	attendanceService services.AttendanceService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, attendanceService services.AttendanceService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		attendanceService: attendanceService,
	}
}

// GetAllEnrollments lists enrollments filtered by graduado_id, taller_id and estado
// @Summary List enrollments
// @Tags inscripciones
// @Produce json
// @Param graduado_id query int false "Graduate ID"
// @Param taller_id query int false "Workshop ID"
// @Param estado query string false "Enrollment status"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /inscripciones [get]
func (c *EnrollmentController) GetAllEnrollments(ctx *gin.Context) {
	graduateID, ok := queryInt64(ctx, "graduado_id")
	if !ok {
		return
	}
	workshopID, ok := queryInt64(ctx, "taller_id")
	if !ok {
		return
	}
	filter := models.EnrollmentFilter{GraduateID: graduateID, WorkshopID: workshopID}
	if status := helpers.OptionalStringQuery(ctx, "estado"); status != nil {
		s := models.EnrollmentStatus(*status)
		filter.Status = &s
	}

	enrollments, err := c.enrollmentService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, enrollments)
}

// CreateEnrollment enrolls a graduate in a workshop
// @Summary Enroll a graduate
// @Tags inscripciones
// @Accept json
// @Produce json
// @Param request body dto.CreateEnrollmentRequest true "Graduate and workshop"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 400 {object} dto.ErrorResponse "Missing fields or cancelled workshop"
// @Failure 404 {object} dto.ErrorResponse "Graduate or workshop not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or workshop full"
// @Router /inscripciones [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, enrollment)
}

// UpdateEnrollment changes the status or certificate of an enrollment
// @Summary Update an enrollment
// @Tags inscripciones
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body dto.UpdateEnrollmentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /inscripciones/{id} [put]
func (c *EnrollmentController) UpdateEnrollment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, enrollment)
}

// DeleteEnrollment removes an enrollment and its attendance
// @Summary Delete an enrollment
// @Tags inscripciones
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /inscripciones/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Enrollment deleted successfully")
}

// GetAttendance lists the attendance of one enrollment
func (c *EnrollmentController) GetAttendance(ctx *gin.Context) {
	enrollmentID, ok := queryInt64(ctx, "inscripcion_id")
	if !ok {
		return
	}
	if enrollmentID == nil {
		middleware.BadRequest(ctx, "inscripcion_id is required")
		return
	}

	rows, err := c.attendanceService.ListByEnrollment(ctx.Request.Context(), *enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

// UpsertAttendance records one class day; repeating it overwrites the status
func (c *EnrollmentController) UpsertAttendance(ctx *gin.Context) {
	var req dto.UpsertAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	row, err := c.attendanceService.Upsert(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, row)
}

// UpsertAttendanceBatch records several class days in one transaction
func (c *EnrollmentController) UpsertAttendanceBatch(ctx *gin.Context) {
	var req dto.BatchAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	rows, err := c.attendanceService.UpsertBatch(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rows)
}

func (c *EnrollmentController) DeleteAttendance(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendanceService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Attendance record deleted successfully")
}
