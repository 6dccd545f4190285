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

var surveyColumns = []string{"id", "titulo", "descripcion", "taller_id", "activa", "created_at"}

// SurveyRepository handles database operations for surveys
type SurveyRepository struct {
	db db.Pool
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(pool db.Pool) *SurveyRepository {
	return &SurveyRepository{db: pool}
}

func scanSurvey(row pgx.Row) (*models.Survey, error) {
	var s models.Survey
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.WorkshopID, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the surveys matching the filter, newest first
func (r *SurveyRepository) List(ctx context.Context, filter models.SurveyFilter) ([]*models.Survey, error) {
	query := psql.Select(surveyColumns...).From("encuestas").OrderBy("created_at DESC", "id DESC")
	if filter.WorkshopID != nil {
		query = query.Where(squirrel.Eq{"taller_id": *filter.WorkshopID})
	}
	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"activa": *filter.Active})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building survey list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing surveys")
		return nil, fmt.Errorf("error listing surveys: %w", err)
	}
	defer rows.Close()

	surveys := make([]*models.Survey, 0)
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning survey: %w", err)
		}
		surveys = append(surveys, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating surveys: %w", err)
	}
	return surveys, nil
}

// GetByID retrieves a survey without its questions
func (r *SurveyRepository) GetByID(ctx context.Context, id int64) (*models.Survey, error) {
	sql, args, err := psql.Select(surveyColumns...).From("encuestas").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building survey query: %w", err)
	}

	s, err := scanSurvey(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrSurveyNotFound
		}
		logger.Error().Err(err).Int64("surveyID", id).Msg("Error retrieving survey")
		return nil, fmt.Errorf("error retrieving survey: %w", err)
	}
	return s, nil
}

// Create inserts a survey together with its inline questions in one transaction
func (r *SurveyRepository) Create(ctx context.Context, s *models.Survey) error {
	sql, args, err := psql.Insert("encuestas").
		Columns("titulo", "descripcion", "taller_id", "activa").
		Values(s.Title, s.Description, s.WorkshopID, s.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create survey query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
			return err
		}
		for i := range s.Questions {
			s.Questions[i].SurveyID = s.ID
			if err := insertQuestion(ctx, tx, &s.Questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrWorkshopNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidQuestionType
		}
		logger.Error().Err(err).Str("title", s.Title).Msg("Error creating survey")
		return fmt.Errorf("error creating survey: %w", err)
	}
	return nil
}

// Update overwrites the survey header
func (r *SurveyRepository) Update(ctx context.Context, s *models.Survey) error {
	sql, args, err := psql.Update("encuestas").
		Set("titulo", s.Title).
		Set("descripcion", s.Description).
		Set("taller_id", s.WorkshopID).
		Set("activa", s.Active).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update survey query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrWorkshopNotFound
		}
		logger.Error().Err(err).Int64("surveyID", s.ID).Msg("Error updating survey")
		return fmt.Errorf("error updating survey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSurveyNotFound
	}
	return nil
}

// Delete removes a survey; questions and responses cascade
func (r *SurveyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("encuestas").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete survey query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("surveyID", id).Msg("Error deleting survey")
		return fmt.Errorf("error deleting survey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSurveyNotFound
	}
	return nil
}
