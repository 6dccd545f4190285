package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
)

// SurveyService defines the interface for surveys, questions and responses
type SurveyService interface {
	List(ctx context.Context, filter models.SurveyFilter) ([]*models.Survey, error)
	GetByID(ctx context.Context, id int64) (*models.Survey, error)
	Create(ctx context.Context, req dto.CreateSurveyRequest) (*models.Survey, error)
	Update(ctx context.Context, id int64, req dto.UpdateSurveyRequest) (*models.Survey, error)
	Delete(ctx context.Context, id int64) error

	AddQuestion(ctx context.Context, surveyID int64, req dto.QuestionRequest) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id int64, req dto.UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error

	SubmitResponses(ctx context.Context, surveyID int64, req dto.SubmitResponsesRequest) ([]*models.Response, error)
	ListResponses(ctx context.Context, surveyID int64) ([]*models.Response, error)
	Summary(ctx context.Context, surveyID int64) (*models.SurveySummary, error)
}

type surveyServiceImpl struct {
	surveys   SurveyStore
	questions QuestionStore
	responses ResponseStore
	graduates GraduateStore
}

// NewSurveyService creates a new survey service instance
func NewSurveyService(surveys SurveyStore, questions QuestionStore, responses ResponseStore, graduates GraduateStore) SurveyService {
	return &surveyServiceImpl{
		surveys:   surveys,
		questions: questions,
		responses: responses,
		graduates: graduates,
	}
}

func (s *surveyServiceImpl) List(ctx context.Context, filter models.SurveyFilter) ([]*models.Survey, error) {
	surveys, err := s.surveys.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving surveys: %w", err)
	}
	return surveys, nil
}

// GetByID returns a survey with its questions in display order
func (s *surveyServiceImpl) GetByID(ctx context.Context, id int64) (*models.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving survey questions: %w", err)
	}
	survey.Questions = questions
	return survey, nil
}

// Create stores the survey and its inline questions in one transaction.
// Questions without an explicit orden follow their position in the request.
func (s *surveyServiceImpl) Create(ctx context.Context, req dto.CreateSurveyRequest) (*models.Survey, error) {
	survey := &models.Survey{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		WorkshopID:  req.WorkshopID,
		Active:      true,
	}
	if survey.Title == "" {
		return nil, apperrors.NewValidationError("titulo is required")
	}
	if req.Active != nil {
		survey.Active = *req.Active
	}

	survey.Questions = make([]models.Question, 0, len(req.Questions))
	for i, qr := range req.Questions {
		q, err := questionFromRequest(qr)
		if err != nil {
			return nil, err
		}
		if qr.Order == nil {
			q.Order = i + 1
		}
		survey.Questions = append(survey.Questions, *q)
	}

	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		survey.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		survey.Description = req.Description
	}
	if req.WorkshopID != nil {
		survey.WorkshopID = req.WorkshopID
	}
	if req.Active != nil {
		survey.Active = *req.Active
	}
	if survey.Title == "" {
		return nil, apperrors.NewValidationError("titulo must not be empty")
	}
	if err := s.surveys.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.surveys.Delete(ctx, id)
}

// AddQuestion appends a question; without orden it goes after the last one
func (s *surveyServiceImpl) AddQuestion(ctx context.Context, surveyID int64, req dto.QuestionRequest) (*models.Question, error) {
	if _, err := s.surveys.GetByID(ctx, surveyID); err != nil {
		return nil, err
	}
	q, err := questionFromRequest(req)
	if err != nil {
		return nil, err
	}
	q.SurveyID = surveyID
	if req.Order == nil {
		next, err := s.questions.NextOrder(ctx, surveyID)
		if err != nil {
			return nil, err
		}
		q.Order = next
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *surveyServiceImpl) UpdateQuestion(ctx context.Context, id int64, req dto.UpdateQuestionRequest) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		q.Text = strings.TrimSpace(*req.Text)
	}
	if req.Type != nil {
		q.Type = models.QuestionType(*req.Type)
	}
	if req.Options != nil {
		q.Options = cleanOptions(*req.Options)
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *surveyServiceImpl) DeleteQuestion(ctx context.Context, id int64) error {
	return s.questions.Delete(ctx, id)
}

// SubmitResponses validates every answer against the survey's questions and
// stores the whole submission in one transaction. A graduate answers a
// survey once.
func (s *surveyServiceImpl) SubmitResponses(ctx context.Context, surveyID int64, req dto.SubmitResponsesRequest) ([]*models.Response, error) {
	if len(req.Answers) == 0 {
		return nil, apperrors.NewValidationError("respuestas must not be empty")
	}

	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.Active {
		return nil, apperrors.NewValidationError("survey is closed")
	}
	if _, err := s.graduates.GetByID(ctx, req.GraduateID); err != nil {
		return nil, err
	}

	answered, err := s.responses.HasResponded(ctx, surveyID, req.GraduateID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, apperrors.ErrResponseAlreadyPresent
	}

	questions, err := s.questions.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving survey questions: %w", err)
	}
	byID := make(map[int64]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	seen := make(map[int64]struct{}, len(req.Answers))
	responses := make([]*models.Response, 0, len(req.Answers))
	for _, a := range req.Answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("pregunta %d: %w", a.QuestionID, apperrors.ErrQuestionNotInSurvey)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("question %d answered twice", a.QuestionID))
		}
		seen[a.QuestionID] = struct{}{}

		resp, err := normalizeAnswer(q, req.GraduateID, a)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if err := s.responses.CreateBatch(ctx, responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *surveyServiceImpl) ListResponses(ctx context.Context, surveyID int64) ([]*models.Response, error) {
	if _, err := s.surveys.GetByID(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.responses.ListBySurvey(ctx, surveyID)
}

// Summary aggregates the responses of a survey per question
func (s *surveyServiceImpl) Summary(ctx context.Context, surveyID int64) (*models.SurveySummary, error) {
	survey, err := s.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int64][]*models.Response, len(survey.Questions))
	respondents := make(map[int64]struct{})
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
		respondents[r.GraduateID] = struct{}{}
	}

	summary := &models.SurveySummary{
		SurveyID:    survey.ID,
		Title:       survey.Title,
		Respondents: len(respondents),
		Questions:   make([]models.QuestionSummary, 0, len(survey.Questions)),
	}
	for _, q := range survey.Questions {
		summary.Questions = append(summary.Questions, summarizeQuestion(q, byQuestion[q.ID]))
	}
	return summary, nil
}

func questionFromRequest(req dto.QuestionRequest) (*models.Question, error) {
	q := &models.Question{
		Text:    strings.TrimSpace(req.Text),
		Type:    models.QuestionType(req.Type),
		Options: cleanOptions(req.Options),
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func validateQuestion(q *models.Question) error {
	if q.Text == "" {
		return apperrors.NewValidationError("texto is required")
	}
	if !q.Type.Valid() {
		return apperrors.ErrInvalidQuestionType
	}
	if q.Type == models.QuestionSingleChoice || q.Type == models.QuestionMultipleChoice {
		if len(q.Options) < 2 {
			return apperrors.NewValidationError("choice questions need at least two opciones")
		}
	} else {
		q.Options = []string{}
	}
	return nil
}

// cleanOptions trims, drops blanks and removes duplicates, keeping order
func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
