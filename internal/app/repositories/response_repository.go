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

// ResponseRepository handles database operations for survey responses
type ResponseRepository struct {
	db db.Pool
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(pool db.Pool) *ResponseRepository {
	return &ResponseRepository{db: pool}
}

// CreateBatch inserts every answer of one submission in a single transaction
func (r *ResponseRepository) CreateBatch(ctx context.Context, responses []*models.Response) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, resp := range responses {
			sql, args, err := psql.Insert("respuestas").
				Columns("pregunta_id", "graduado_id", "texto", "seleccion").
				Values(resp.QuestionID, resp.GraduateID, resp.Text, resp.Selection).
				Suffix("RETURNING id, created_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("error building create response query: %w", err)
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&resp.ID, &resp.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "unknown graduate or question")
		}
		logger.Error().Err(err).Int("count", len(responses)).Msg("Error storing survey responses")
		return fmt.Errorf("error storing responses: %w", err)
	}
	return nil
}

// HasResponded reports whether a graduate already answered any question of the survey
func (r *ResponseRepository) HasResponded(ctx context.Context, surveyID, graduateID int64) (bool, error) {
	sql, args, err := psql.Select("1").From("respuestas r").
		Join("preguntas p ON p.id = r.pregunta_id").
		Where(squirrel.Eq{"p.encuesta_id": surveyID, "r.graduado_id": graduateID}).
		Prefix("SELECT EXISTS(").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building response exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking responses: %w", err)
	}
	return exists, nil
}

// ListBySurvey returns the raw responses of a survey ordered by question position
func (r *ResponseRepository) ListBySurvey(ctx context.Context, surveyID int64) ([]*models.Response, error) {
	sql, args, err := psql.Select("r.id", "r.pregunta_id", "r.graduado_id", "r.texto", "r.seleccion", "r.created_at").
		From("respuestas r").
		Join("preguntas p ON p.id = r.pregunta_id").
		Where(squirrel.Eq{"p.encuesta_id": surveyID}).
		OrderBy("p.orden", "r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building response list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("surveyID", surveyID).Msg("Error listing responses")
		return nil, fmt.Errorf("error listing responses: %w", err)
	}
	defer rows.Close()

	responses := make([]*models.Response, 0)
	for rows.Next() {
		var resp models.Response
		if err := rows.Scan(&resp.ID, &resp.QuestionID, &resp.GraduateID, &resp.Text, &resp.Selection, &resp.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning response: %w", err)
		}
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}
	return responses, nil
}
