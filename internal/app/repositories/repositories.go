package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/egresados/seguimiento-api/internal/db"
	"github.com/jackc/pgx/v5"
)

// psql builds every statement with Postgres placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	GraduateRepository   *GraduateRepository
	WorkshopRepository   *WorkshopRepository
	EnrollmentRepository *EnrollmentRepository
	AttendanceRepository *AttendanceRepository
	AreaRepository       *AreaRepository
	PreferenceRepository *PreferenceRepository
	DocumentRepository   *DocumentRepository
	SurveyRepository     *SurveyRepository
	QuestionRepository   *QuestionRepository
	ResponseRepository   *ResponseRepository
	ProfileRepository    *ProfileRepository
	ReportRepository     *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Pool) *Repositories {
	return &Repositories{
		GraduateRepository:   NewGraduateRepository(pool),
		WorkshopRepository:   NewWorkshopRepository(pool),
		EnrollmentRepository: NewEnrollmentRepository(pool),
		AttendanceRepository: NewAttendanceRepository(pool),
		AreaRepository:       NewAreaRepository(pool),
		PreferenceRepository: NewPreferenceRepository(pool),
		DocumentRepository:   NewDocumentRepository(pool),
		SurveyRepository:     NewSurveyRepository(pool),
		QuestionRepository:   NewQuestionRepository(pool),
		ResponseRepository:   NewResponseRepository(pool),
		ProfileRepository:    NewProfileRepository(pool),
		ReportRepository:     NewReportRepository(pool),
	}
}

// replaceLinks deletes every row of table matching ownerColumn = ownerID and
// inserts one (ownerID, linkedID) row per id. It runs on the caller's transaction.
func replaceLinks(ctx context.Context, q db.DBTX, table, ownerColumn, linkColumn string, ownerID int64, linkedIDs []int64) error {
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{ownerColumn: ownerID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return err
	}

	ids := uniqueIDs(linkedIDs)
	if len(ids) == 0 {
		return nil
	}

	insert := psql.Insert(table).Columns(ownerColumn, linkColumn)
	for _, id := range ids {
		insert = insert.Values(ownerID, id)
	}
	sql, args, err = insert.ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
