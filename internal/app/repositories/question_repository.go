package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/db"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/dberrors"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var questionColumns = []string{"id", "encuesta_id", "texto", "tipo", "opciones", "orden"}

// QuestionRepository handles database operations for survey questions
type QuestionRepository struct {
	db db.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(pool db.Pool) *QuestionRepository {
	return &QuestionRepository{db: pool}
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	if err := row.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Type, &q.Options, &q.Order); err != nil {
		return nil, err
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return &q, nil
}

func insertQuestion(ctx context.Context, q db.DBTX, question *models.Question) error {
	if question.Options == nil {
		question.Options = []string{}
	}
	sql, args, err := psql.Insert("preguntas").
		Columns("encuesta_id", "texto", "tipo", "opciones", "orden").
		Values(question.SurveyID, question.Text, question.Type, question.Options, question.Order).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create question query: %w", err)
	}
	return q.QueryRow(ctx, sql, args...).Scan(&question.ID)
}

// ListBySurvey returns the questions of a survey in display order
func (r *QuestionRepository) ListBySurvey(ctx context.Context, surveyID int64) ([]models.Question, error) {
	sql, args, err := psql.Select(questionColumns...).From("preguntas").
		Where(squirrel.Eq{"encuesta_id": surveyID}).
		OrderBy("orden", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building question list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("surveyID", surveyID).Msg("Error listing questions")
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	sql, args, err := psql.Select(questionColumns...).From("preguntas").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building question query: %w", err)
	}

	q, err := scanQuestion(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrQuestionNotFound
		}
		logger.Error().Err(err).Int64("questionID", id).Msg("Error retrieving question")
		return nil, fmt.Errorf("error retrieving question: %w", err)
	}
	return q, nil
}

// NextOrder returns the position after the last question of a survey
func (r *QuestionRepository) NextOrder(ctx context.Context, surveyID int64) (int, error) {
	sql, args, err := psql.Select("COALESCE(MAX(orden), 0) + 1").From("preguntas").
		Where(squirrel.Eq{"encuesta_id": surveyID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building next order query: %w", err)
	}

	var next int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("error computing next question order: %w", err)
	}
	return next, nil
}

// Create inserts a question into an existing survey
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	if err := insertQuestion(ctx, r.db, q); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSurveyNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidQuestionType
		}
		logger.Error().Err(err).Int64("surveyID", q.SurveyID).Msg("Error creating question")
		return fmt.Errorf("error creating question: %w", err)
	}
	return nil
}

// Update overwrites a question's text, type, options and order
func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	if q.Options == nil {
		q.Options = []string{}
	}
	sql, args, err := psql.Update("preguntas").
		Set("texto", q.Text).
		Set("tipo", q.Type).
		Set("opciones", q.Options).
		Set("orden", q.Order).
		Where(squirrel.Eq{"id": q.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update question query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidQuestionType
		}
		logger.Error().Err(err).Int64("questionID", q.ID).Msg("Error updating question")
		return fmt.Errorf("error updating question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}
	return nil
}

// Delete removes a question; its responses cascade
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("preguntas").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete question query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("questionID", id).Msg("Error deleting question")
		return fmt.Errorf("error deleting question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}
	return nil
}
