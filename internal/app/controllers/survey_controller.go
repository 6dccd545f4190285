package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SurveyController handles surveys, their questions and responses
type SurveyController struct {
	surveyService services.SurveyService
}

// NewSurveyController creates a new SurveyController
func NewSurveyController(surveyService services.SurveyService) *SurveyController {
	return &SurveyController{
		surveyService: surveyService,
	}
}

// GetAllSurveys lists surveys
// @Summary List surveys
// @Tags encuestas
// @Produce json
// @Param taller_id query int false "Workshop ID"
// @Param activa query bool false "Only open or closed surveys"
// @Success 200 {object} dto.APIResponse{data=[]models.Survey}
// @Router /encuestas [get]
func (c *SurveyController) GetAllSurveys(ctx *gin.Context) {
	workshopID, ok := queryInt64(ctx, "taller_id")
	if !ok {
		return
	}
	active, ok := queryBool(ctx, "activa")
	if !ok {
		return
	}

	surveys, err := c.surveyService.List(ctx.Request.Context(), models.SurveyFilter{WorkshopID: workshopID, Active: active})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, surveys)
}

// GetSurveyByID retrieves a survey with its questions in display order
// @Summary Get survey by ID
// @Tags encuestas
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=models.Survey}
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /encuestas/{id} [get]
func (c *SurveyController) GetSurveyByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	survey, err := c.surveyService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, survey)
}

// CreateSurvey creates a survey and its inline questions in one transaction
// @Summary Create a survey
// @Tags encuestas
// @Accept json
// @Produce json
// @Param request body dto.CreateSurveyRequest true "Survey with optional questions"
// @Success 201 {object} dto.APIResponse{data=models.Survey}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /encuestas [post]
func (c *SurveyController) CreateSurvey(ctx *gin.Context) {
	var req dto.CreateSurveyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	survey, err := c.surveyService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, survey)
}

func (c *SurveyController) UpdateSurvey(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateSurveyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	survey, err := c.surveyService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, survey)
}

func (c *SurveyController) DeleteSurvey(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.surveyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Survey deleted successfully")
}

// AddQuestion appends a question to a survey
// @Summary Add a question
// @Tags encuestas
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=models.Question}
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /encuestas/{id}/preguntas [post]
func (c *SurveyController) AddQuestion(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	question, err := c.surveyService.AddQuestion(ctx.Request.Context(), surveyID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, question)
}

func (c *SurveyController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	question, err := c.surveyService.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, question)
}

func (c *SurveyController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.surveyService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Question deleted successfully")
}

// SubmitResponses stores one graduate's answers to a survey
// @Summary Answer a survey
// @Tags encuestas
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body dto.SubmitResponsesRequest true "Answers"
// @Success 201 {object} dto.APIResponse{data=[]models.Response}
// @Failure 400 {object} dto.ErrorResponse "Invalid answer or question outside the survey"
// @Failure 409 {object} dto.ErrorResponse "Graduate already answered"
// @Router /encuestas/{id}/respuestas [post]
func (c *SurveyController) SubmitResponses(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubmitResponsesRequest
	if !bindJSON(ctx, &req) {
		return
	}

	responses, err := c.surveyService.SubmitResponses(ctx.Request.Context(), surveyID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, responses)
}

func (c *SurveyController) GetResponses(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	responses, err := c.surveyService.ListResponses(ctx.Request.Context(), surveyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, responses)
}

// GetSummary aggregates a survey's responses per question
// @Summary Survey summary
// @Tags encuestas
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=models.SurveySummary}
// @Router /encuestas/{id}/resumen [get]
func (c *SurveyController) GetSummary(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	summary, err := c.surveyService.Summary(ctx.Request.Context(), surveyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, summary)
}
