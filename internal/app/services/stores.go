package services

import (
	"context"

	"github.com/egresados/seguimiento-api/internal/app/models"
)

// The store interfaces below are satisfied by the pgx repositories in
// internal/app/repositories and by in-memory fakes in tests.

// GraduateStore persists graduates
type GraduateStore interface {
	List(ctx context.Context, filter models.GraduateFilter) ([]*models.Graduate, error)
	GetByID(ctx context.Context, id int64) (*models.Graduate, error)
	GetByProfileID(ctx context.Context, profileID string) (*models.Graduate, error)
	Create(ctx context.Context, g *models.Graduate) error
	Update(ctx context.Context, g *models.Graduate) error
	Delete(ctx context.Context, id int64) error
	ListRecipientsByAreas(ctx context.Context, areaIDs []int64) ([]models.Recipient, error)
}

// WorkshopStore persists workshops and their area associations
type WorkshopStore interface {
	List(ctx context.Context, filter models.WorkshopFilter) ([]*models.Workshop, error)
	GetByID(ctx context.Context, id int64) (*models.Workshop, error)
	Create(ctx context.Context, w *models.Workshop) error
	Update(ctx context.Context, w *models.Workshop, areaIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentStore persists enrollments
type EnrollmentStore interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Exists(ctx context.Context, graduateID, workshopID int64) (bool, error)
	CountActive(ctx context.Context, workshopID int64) (int, error)
	Create(ctx context.Context, e *models.Enrollment) error
	Update(ctx context.Context, e *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

// AttendanceStore persists daily attendance
type AttendanceStore interface {
	Upsert(ctx context.Context, a *models.Attendance) error
	UpsertBatch(ctx context.Context, entries []*models.Attendance) error
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Attendance, error)
	ListByWorkshop(ctx context.Context, workshopID int64) ([]*models.Attendance, error)
	Delete(ctx context.Context, id int64) error
}

// AreaStore persists interest areas
type AreaStore interface {
	List(ctx context.Context) ([]*models.Area, error)
	GetByID(ctx context.Context, id int64) (*models.Area, error)
	Create(ctx context.Context, a *models.Area) error
	Update(ctx context.Context, a *models.Area) error
	Delete(ctx context.Context, id int64) error
}

// PreferenceStore persists graduate interest preferences
type PreferenceStore interface {
	List(ctx context.Context, graduateID int64) ([]*models.Area, error)
	Replace(ctx context.Context, graduateID int64, areaIDs []int64) error
}

// DocumentStore persists document references
type DocumentStore interface {
	List(ctx context.Context, graduateID *int64) ([]*models.Document, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	Create(ctx context.Context, d *models.Document) error
	Delete(ctx context.Context, id int64) error
}

// SurveyStore persists survey headers (and inline questions on create)
type SurveyStore interface {
	List(ctx context.Context, filter models.SurveyFilter) ([]*models.Survey, error)
	GetByID(ctx context.Context, id int64) (*models.Survey, error)
	Create(ctx context.Context, s *models.Survey) error
	Update(ctx context.Context, s *models.Survey) error
	Delete(ctx context.Context, id int64) error
}

// QuestionStore persists survey questions
type QuestionStore interface {
	ListBySurvey(ctx context.Context, surveyID int64) ([]models.Question, error)
	GetByID(ctx context.Context, id int64) (*models.Question, error)
	NextOrder(ctx context.Context, surveyID int64) (int, error)
	Create(ctx context.Context, q *models.Question) error
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id int64) error
}

// ResponseStore persists survey answers
type ResponseStore interface {
	CreateBatch(ctx context.Context, responses []*models.Response) error
	HasResponded(ctx context.Context, surveyID, graduateID int64) (bool, error)
	ListBySurvey(ctx context.Context, surveyID int64) ([]*models.Response, error)
}

// ProfileStore persists account profiles
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
}

// ReportStore runs the aggregate report queries
type ReportStore interface {
	GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error)
	GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error)
	EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error)
	AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error)
}
