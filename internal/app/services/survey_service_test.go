package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type surveyFixture struct {
	svc       SurveyService
	surveys   *fakeSurveys
	questions *fakeQuestions
	responses *fakeResponses
	graduates *fakeGraduates
}

func newSurveyFixture() *surveyFixture {
	questions := &fakeQuestions{rows: map[int64]*models.Question{}}
	f := &surveyFixture{
		questions: questions,
		surveys:   &fakeSurveys{rows: map[int64]*models.Survey{}, questions: questions},
		responses: &fakeResponses{questions: questions},
		graduates: newFakeGraduates(sampleGraduate("1"), sampleGraduate("2")),
	}
	f.svc = NewSurveyService(f.surveys, f.questions, f.responses, f.graduates)
	return f
}

func (f *surveyFixture) createSurvey(t *testing.T) *models.Survey {
	t.Helper()
	s, err := f.svc.Create(context.Background(), dto.CreateSurveyRequest{
		Title: "Seguimiento 2026",
		Questions: []dto.QuestionRequest{
			{Text: "¿Trabaja actualmente?", Type: "si_no"},
			{Text: "Satisfacción", Type: "escala_5"},
			{Text: "Sector", Type: "opcion_unica", Options: []string{"Público", "Privado", " Privado "}},
			{Text: "Habilidades", Type: "opcion_multiple", Options: []string{"Go", "SQL", "Docker"}},
			{Text: "Comentarios", Type: "texto_largo", Options: []string{"ignored"}},
		},
	})
	require.NoError(t, err)
	return s
}

func raw(v string) json.RawMessage { return json.RawMessage(v) }

func TestSurveyService_CreateOrdersAndCleansQuestions(t *testing.T) {
	f := newSurveyFixture()
	s := f.createSurvey(t)

	assert.True(t, s.Active)
	got, err := f.svc.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 5)
	for i, q := range got.Questions {
		assert.Equal(t, i+1, q.Order)
	}
	assert.Equal(t, []string{"Público", "Privado"}, got.Questions[2].Options)
	assert.Empty(t, got.Questions[4].Options)

	_, err = f.svc.Create(context.Background(), dto.CreateSurveyRequest{
		Title:     "Mala",
		Questions: []dto.QuestionRequest{{Text: "Elija", Type: "opcion_unica", Options: []string{"solo"}}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Create(context.Background(), dto.CreateSurveyRequest{
		Title:     "Mala",
		Questions: []dto.QuestionRequest{{Text: "?", Type: "dibujo"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuestionType)
}

func TestSurveyService_AddQuestionAppends(t *testing.T) {
	f := newSurveyFixture()
	s := f.createSurvey(t)

	q, err := f.svc.AddQuestion(context.Background(), s.ID, dto.QuestionRequest{Text: "Nueva", Type: "texto_corto"})
	require.NoError(t, err)
	assert.Equal(t, 6, q.Order)
	assert.Equal(t, s.ID, q.SurveyID)

	_, err = f.svc.AddQuestion(context.Background(), 999, dto.QuestionRequest{Text: "Nueva", Type: "texto_corto"})
	assert.ErrorIs(t, err, apperrors.ErrSurveyNotFound)

	updated, err := f.svc.UpdateQuestion(context.Background(), q.ID, dto.UpdateQuestionRequest{
		Type:    ptr("opcion_multiple"),
		Options: &[]string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuestionMultipleChoice, updated.Type)
	assert.Equal(t, []string{"a", "b"}, updated.Options)
}

func TestSurveyService_SubmitResponses(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	s := f.createSurvey(t)
	qs, err := f.questions.ListBySurvey(ctx, s.ID)
	require.NoError(t, err)

	answers := []dto.AnswerRequest{
		{QuestionID: qs[0].ID, Selection: raw(`"sí"`)},
		{QuestionID: qs[1].ID, Selection: raw(`4`)},
		{QuestionID: qs[2].ID, Selection: raw(`["Privado"]`)},
		{QuestionID: qs[3].ID, Selection: raw(`["SQL","Go","SQL"]`)},
		{QuestionID: qs[4].ID, Text: ptr("  Muy útil ")},
	}
	saved, err := f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{GraduateID: 1, Answers: answers})
	require.NoError(t, err)
	require.Len(t, saved, 5)
	assert.JSONEq(t, `true`, string(saved[0].Selection))
	assert.JSONEq(t, `4`, string(saved[1].Selection))
	assert.JSONEq(t, `"Privado"`, string(saved[2].Selection))
	assert.JSONEq(t, `["Go","SQL"]`, string(saved[3].Selection))
	assert.Equal(t, "Muy útil", *saved[4].Text)

	_, err = f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{GraduateID: 1, Answers: answers[:1]})
	assert.ErrorIs(t, err, apperrors.ErrResponseAlreadyPresent)
}

func TestSurveyService_SubmitResponsesRejectsInvalidAnswers(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	s := f.createSurvey(t)
	other, err := f.svc.Create(ctx, dto.CreateSurveyRequest{
		Title:     "Otra",
		Questions: []dto.QuestionRequest{{Text: "x", Type: "texto_corto"}},
	})
	require.NoError(t, err)
	qs, err := f.questions.ListBySurvey(ctx, s.ID)
	require.NoError(t, err)

	cases := []struct {
		name   string
		answer dto.AnswerRequest
		target error
	}{
		{"question from another survey", dto.AnswerRequest{QuestionID: other.Questions[0].ID, Text: ptr("x")}, apperrors.ErrQuestionNotInSurvey},
		{"scale out of range", dto.AnswerRequest{QuestionID: qs[1].ID, Selection: raw(`6`)}, apperrors.ErrValidationFailed},
		{"scale overflow", dto.AnswerRequest{QuestionID: qs[1].ID, Selection: raw(`1e300`)}, apperrors.ErrValidationFailed},
		{"scale negative overflow", dto.AnswerRequest{QuestionID: qs[1].ID, Selection: raw(`-1e300`)}, apperrors.ErrValidationFailed},
		{"scale not integer", dto.AnswerRequest{QuestionID: qs[1].ID, Selection: raw(`2.5`)}, apperrors.ErrValidationFailed},
		{"unknown option", dto.AnswerRequest{QuestionID: qs[2].ID, Selection: raw(`"Mixto"`)}, apperrors.ErrValidationFailed},
		{"two options on single choice", dto.AnswerRequest{QuestionID: qs[2].ID, Selection: raw(`["Público","Privado"]`)}, apperrors.ErrValidationFailed},
		{"yes/no garbage", dto.AnswerRequest{QuestionID: qs[0].ID, Selection: raw(`"quizás"`)}, apperrors.ErrValidationFailed},
		{"missing text", dto.AnswerRequest{QuestionID: qs[4].ID}, apperrors.ErrValidationFailed},
		{"missing selection", dto.AnswerRequest{QuestionID: qs[3].ID, Selection: raw(`null`)}, apperrors.ErrValidationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{
				GraduateID: 2,
				Answers:    []dto.AnswerRequest{tc.answer},
			})
			assert.ErrorIs(t, err, tc.target)
		})
	}
	assert.Empty(t, f.responses.rows)

	_, err = f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{
		GraduateID: 2,
		Answers: []dto.AnswerRequest{
			{QuestionID: qs[4].ID, Text: ptr("a")},
			{QuestionID: qs[4].ID, Text: ptr("b")},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{
		GraduateID: 404,
		Answers:    []dto.AnswerRequest{{QuestionID: qs[4].ID, Text: ptr("a")}},
	})
	assert.ErrorIs(t, err, apperrors.ErrGraduateNotFound)
}

func TestNormalizeAnswer_MultipleChoiceFollowsOptionOrder(t *testing.T) {
	q := models.Question{ID: 7, Type: models.QuestionMultipleChoice, Options: []string{"Go", "SQL", "Docker"}}

	resp, err := normalizeAnswer(q, 1, dto.AnswerRequest{QuestionID: 7, Selection: raw(`["Docker","Go","Docker"]`)})
	require.NoError(t, err)
	assert.JSONEq(t, `["Go","Docker"]`, string(resp.Selection))
}

func TestSummarizeQuestion_IgnoresOutOfRangeScale(t *testing.T) {
	q := models.Question{ID: 3, Type: models.QuestionScale5}
	sum := summarizeQuestion(q, []*models.Response{
		{QuestionID: 3, Selection: raw(`4`)},
		{QuestionID: 3, Selection: raw(`-9223372036854775808`)},
	})

	assert.Equal(t, 1, sum.TotalResponses)
	assert.Len(t, sum.Counts, 5)
	require.NotNil(t, sum.Average)
	assert.Equal(t, 4.0, *sum.Average)
}

func TestSurveyService_ClosedSurveyRejectsResponses(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	s := f.createSurvey(t)
	_, err := f.svc.Update(ctx, s.ID, dto.UpdateSurveyRequest{Active: ptr(false)})
	require.NoError(t, err)

	_, err = f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{
		GraduateID: 1,
		Answers:    []dto.AnswerRequest{{QuestionID: s.Questions[4].ID, Text: ptr("a")}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSurveyService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	s := f.createSurvey(t)
	qs, err := f.questions.ListBySurvey(ctx, s.ID)
	require.NoError(t, err)

	submit := func(graduateID int64, yes, scale, sector, skills, text string) {
		_, err := f.svc.SubmitResponses(ctx, s.ID, dto.SubmitResponsesRequest{
			GraduateID: graduateID,
			Answers: []dto.AnswerRequest{
				{QuestionID: qs[0].ID, Selection: raw(yes)},
				{QuestionID: qs[1].ID, Selection: raw(scale)},
				{QuestionID: qs[2].ID, Selection: raw(sector)},
				{QuestionID: qs[3].ID, Selection: raw(skills)},
				{QuestionID: qs[4].ID, Text: ptr(text)},
			},
		})
		require.NoError(t, err)
	}
	submit(1, `true`, `5`, `"Privado"`, `["Go","SQL"]`, "bien")
	submit(2, `"no"`, `2`, `"Privado"`, `["Go"]`, "regular")

	summary, err := f.svc.Summary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Respondents)
	require.Len(t, summary.Questions, 5)

	yesNo := summary.Questions[0]
	assert.Equal(t, map[string]int{"si": 1, "no": 1}, yesNo.Counts)

	scale := summary.Questions[1]
	assert.Equal(t, 2, scale.TotalResponses)
	require.NotNil(t, scale.Average)
	assert.InDelta(t, 3.5, *scale.Average, 0.001)
	assert.Equal(t, 1, scale.Counts["5"])
	assert.Equal(t, 0, scale.Counts["3"])

	sector := summary.Questions[2]
	assert.Equal(t, map[string]int{"Público": 0, "Privado": 2}, sector.Counts)

	skills := summary.Questions[3]
	assert.Equal(t, 2, skills.Counts["Go"])
	assert.Equal(t, 1, skills.Counts["SQL"])
	assert.Equal(t, 0, skills.Counts["Docker"])

	text := summary.Questions[4]
	assert.ElementsMatch(t, []string{"bien", "regular"}, text.Answers)

	_, err = f.svc.Summary(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrSurveyNotFound)
}
