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

var profileColumns = []string{"id::text", "email", "nombre", "rol", "created_at"}

// ProfileRepository handles database operations for account profiles
type ProfileRepository struct {
	db db.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool db.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by its auth user id
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	sql, args, err := psql.Select(profileColumns...).From("perfiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", id).Msg("Error retrieving profile")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return p, nil
}

// List returns profiles, optionally restricted to one role
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	query := psql.Select(profileColumns...).From("perfiles").OrderBy("nombre", "email")
	if filter.Role != nil {
		query = query.Where(squirrel.Eq{"rol": *filter.Role})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing profiles")
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// Upsert inserts a profile or refreshes email, name and role of an existing one
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	sql, args, err := psql.Insert("perfiles").
		Columns("id", "email", "nombre", "rol").
		Values(p.ID, p.Email, p.Name, p.Role).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, nombre = EXCLUDED.nombre, rol = EXCLUDED.rol RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building profile upsert query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidRole
		}
		logger.Error().Err(err).Str("profileID", p.ID).Msg("Error upserting profile")
		return fmt.Errorf("error upserting profile: %w", err)
	}
	return nil
}

// Update stores the name and role of a profile
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := psql.Update("perfiles").
		Set("nombre", p.Name).
		Set("rol", p.Role).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building profile update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidRole
		}
		logger.Error().Err(err).Str("profileID", p.ID).Msg("Error updating profile")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}
