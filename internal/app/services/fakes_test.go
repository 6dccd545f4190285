package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/egresados/seguimiento-api/internal/pkg/email"
	"github.com/egresados/seguimiento-api/internal/pkg/filestorage"
)

// In-memory stores shared by the service tests. They mirror the sentinel
// errors returned by the pgx repositories.

type fakeGraduates struct {
	rows       map[int64]*models.Graduate
	prefs      map[int64][]int64
	nextID     int64
	recipients []models.Recipient
}

func newFakeGraduates(gs ...*models.Graduate) *fakeGraduates {
	f := &fakeGraduates{rows: map[int64]*models.Graduate{}, prefs: map[int64][]int64{}}
	for _, g := range gs {
		f.nextID++
		if g.ID == 0 {
			g.ID = f.nextID
		}
		f.rows[g.ID] = g
	}
	return f
}

func (f *fakeGraduates) List(ctx context.Context, filter models.GraduateFilter) ([]*models.Graduate, error) {
	out := []*models.Graduate{}
	for _, g := range f.rows {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGraduates) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	g, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrGraduateNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGraduates) GetByProfileID(ctx context.Context, profileID string) (*models.Graduate, error) {
	for _, g := range f.rows {
		if g.ProfileID != nil && *g.ProfileID == profileID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperrors.ErrGraduateNotFound
}

func (f *fakeGraduates) Create(ctx context.Context, g *models.Graduate) error {
	for _, existing := range f.rows {
		if existing.NationalID == g.NationalID {
			return apperrors.ErrNationalIDExists
		}
	}
	f.nextID++
	g.ID = f.nextID
	cp := *g
	f.rows[g.ID] = &cp
	return nil
}

func (f *fakeGraduates) Update(ctx context.Context, g *models.Graduate) error {
	if _, ok := f.rows[g.ID]; !ok {
		return apperrors.ErrGraduateNotFound
	}
	cp := *g
	f.rows[g.ID] = &cp
	return nil
}

func (f *fakeGraduates) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrGraduateNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeGraduates) ListRecipientsByAreas(ctx context.Context, areaIDs []int64) ([]models.Recipient, error) {
	return f.recipients, nil
}

type fakeWorkshops struct {
	rows   map[int64]*models.Workshop
	nextID int64
}

func newFakeWorkshops(ws ...*models.Workshop) *fakeWorkshops {
	f := &fakeWorkshops{rows: map[int64]*models.Workshop{}}
	for _, w := range ws {
		f.nextID++
		if w.ID == 0 {
			w.ID = f.nextID
		}
		if w.Modality == "" {
			w.Modality = models.ModalityOnSite
		}
		f.rows[w.ID] = w
	}
	return f
}

func (f *fakeWorkshops) List(ctx context.Context, filter models.WorkshopFilter) ([]*models.Workshop, error) {
	out := []*models.Workshop{}
	for _, w := range f.rows {
		if filter.Published != nil && w.Published != *filter.Published {
			continue
		}
		if filter.Cancelled != nil && w.Cancelled != *filter.Cancelled {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeWorkshops) GetByID(ctx context.Context, id int64) (*models.Workshop, error) {
	w, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrWorkshopNotFound
	}
	cp := *w
	cp.AreaIDs = append([]int64{}, w.AreaIDs...)
	return &cp, nil
}

func (f *fakeWorkshops) Create(ctx context.Context, w *models.Workshop) error {
	f.nextID++
	w.ID = f.nextID
	cp := *w
	f.rows[w.ID] = &cp
	return nil
}

func (f *fakeWorkshops) Update(ctx context.Context, w *models.Workshop, areaIDs *[]int64) error {
	stored, ok := f.rows[w.ID]
	if !ok {
		return apperrors.ErrWorkshopNotFound
	}
	cp := *w
	cp.AreaIDs = stored.AreaIDs
	if areaIDs != nil {
		cp.AreaIDs = append([]int64{}, (*areaIDs)...)
		w.AreaIDs = cp.AreaIDs
	}
	f.rows[w.ID] = &cp
	return nil
}

func (f *fakeWorkshops) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrWorkshopNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeEnrollments struct {
	rows   map[int64]*models.Enrollment
	nextID int64
	// raceOnCreate makes Create behave like a concurrent insert won the race
	raceOnCreate bool
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{rows: map[int64]*models.Enrollment{}}
}

func (f *fakeEnrollments) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for _, e := range f.rows {
		if filter.GraduateID != nil && e.GraduateID != *filter.GraduateID {
			continue
		}
		if filter.WorkshopID != nil && e.WorkshopID != *filter.WorkshopID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEnrollments) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollments) Exists(ctx context.Context, graduateID, workshopID int64) (bool, error) {
	for _, e := range f.rows {
		if e.GraduateID == graduateID && e.WorkshopID == workshopID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollments) CountActive(ctx context.Context, workshopID int64) (int, error) {
	n := 0
	for _, e := range f.rows {
		if e.WorkshopID == workshopID && e.Status != models.EnrollmentWithdrawn {
			n++
		}
	}
	return n, nil
}

func (f *fakeEnrollments) Create(ctx context.Context, e *models.Enrollment) error {
	if f.raceOnCreate {
		return apperrors.ErrEnrollmentExists
	}
	if ok, _ := f.Exists(ctx, e.GraduateID, e.WorkshopID); ok {
		return apperrors.ErrEnrollmentExists
	}
	f.nextID++
	e.ID = f.nextID
	e.Status = models.EnrollmentEnrolled
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEnrollments) Update(ctx context.Context, e *models.Enrollment) error {
	if _, ok := f.rows[e.ID]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEnrollments) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(f.rows, id)
	return nil
}

type attendanceKey struct {
	enrollmentID int64
	date         string
}

type fakeAttendance struct {
	rows        map[attendanceKey]*models.Attendance
	enrollments *fakeEnrollments
	nextID      int64
}

func newFakeAttendance(enrollments *fakeEnrollments) *fakeAttendance {
	return &fakeAttendance{rows: map[attendanceKey]*models.Attendance{}, enrollments: enrollments}
}

func (f *fakeAttendance) upsert(a *models.Attendance) error {
	if _, ok := f.enrollments.rows[a.EnrollmentID]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	key := attendanceKey{a.EnrollmentID, a.ClassDate}
	if existing, ok := f.rows[key]; ok {
		existing.Status = a.Status
		a.ID = existing.ID
		return nil
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.rows[key] = &cp
	return nil
}

func (f *fakeAttendance) Upsert(ctx context.Context, a *models.Attendance) error {
	return f.upsert(a)
}

func (f *fakeAttendance) UpsertBatch(ctx context.Context, entries []*models.Attendance) error {
	snapshot := make(map[attendanceKey]models.Attendance, len(f.rows))
	for k, v := range f.rows {
		snapshot[k] = *v
	}
	for _, a := range entries {
		if err := f.upsert(a); err != nil {
			f.rows = make(map[attendanceKey]*models.Attendance, len(snapshot))
			for k, v := range snapshot {
				f.rows[k] = &v
			}
			return err
		}
	}
	return nil
}

func (f *fakeAttendance) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Attendance, error) {
	out := []*models.Attendance{}
	for k, v := range f.rows {
		if k.enrollmentID == enrollmentID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListByWorkshop(ctx context.Context, workshopID int64) ([]*models.Attendance, error) {
	out := []*models.Attendance{}
	for k, v := range f.rows {
		if e, ok := f.enrollments.rows[k.enrollmentID]; ok && e.WorkshopID == workshopID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeAttendance) Delete(ctx context.Context, id int64) error {
	for k, v := range f.rows {
		if v.ID == id {
			delete(f.rows, k)
			return nil
		}
	}
	return apperrors.ErrAttendanceNotFound
}

type fakeAreas struct {
	rows   map[int64]*models.Area
	nextID int64
}

func newFakeAreas(names ...string) *fakeAreas {
	f := &fakeAreas{rows: map[int64]*models.Area{}}
	for _, n := range names {
		f.nextID++
		f.rows[f.nextID] = &models.Area{ID: f.nextID, Name: n}
	}
	return f
}

func (f *fakeAreas) List(ctx context.Context) ([]*models.Area, error) {
	out := []*models.Area{}
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAreas) GetByID(ctx context.Context, id int64) (*models.Area, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrAreaNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAreas) Create(ctx context.Context, a *models.Area) error {
	for _, existing := range f.rows {
		if strings.EqualFold(existing.Name, a.Name) {
			return apperrors.ErrAreaExists
		}
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAreas) Update(ctx context.Context, a *models.Area) error {
	if _, ok := f.rows[a.ID]; !ok {
		return apperrors.ErrAreaNotFound
	}
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAreas) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrAreaNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePreferences struct {
	areas *fakeAreas
	links map[int64][]int64
}

func (f *fakePreferences) List(ctx context.Context, graduateID int64) ([]*models.Area, error) {
	out := []*models.Area{}
	for _, id := range f.links[graduateID] {
		if a, ok := f.areas.rows[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePreferences) Replace(ctx context.Context, graduateID int64, areaIDs []int64) error {
	for _, id := range areaIDs {
		if _, ok := f.areas.rows[id]; !ok {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "unknown graduate or interest area")
		}
	}
	f.links[graduateID] = append([]int64{}, areaIDs...)
	return nil
}

type fakeDocuments struct {
	rows      map[int64]*models.Document
	nextID    int64
	createErr error
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{rows: map[int64]*models.Document{}}
}

func (f *fakeDocuments) List(ctx context.Context, graduateID *int64) ([]*models.Document, error) {
	out := []*models.Document{}
	for _, d := range f.rows {
		if graduateID == nil || d.GraduateID == *graduateID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocuments) Create(ctx context.Context, d *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	d.ID = f.nextID
	cp := *d
	f.rows[d.ID] = &cp
	return nil
}

func (f *fakeDocuments) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrDocumentNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeObjectStore struct {
	objects   map[string]string
	deleteErr error
	calls     []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]string{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.calls = append(f.calls, "upload:"+path)
	f.objects[path] = string(b)
	return nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, path string) error {
	f.calls = append(f.calls, "delete:"+path)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeObjectStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if _, ok := f.objects[path]; !ok {
		return "", filestorage.ErrObjectNotFound
	}
	return "https://files.example/" + path + "?ttl=" + ttl.String(), nil
}

type fakeSurveys struct {
	rows      map[int64]*models.Survey
	questions *fakeQuestions
	nextID    int64
}

func (f *fakeSurveys) List(ctx context.Context, filter models.SurveyFilter) ([]*models.Survey, error) {
	out := []*models.Survey{}
	for _, s := range f.rows {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSurveys) GetByID(ctx context.Context, id int64) (*models.Survey, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrSurveyNotFound
	}
	cp := *s
	cp.Questions = nil
	return &cp, nil
}

func (f *fakeSurveys) Create(ctx context.Context, s *models.Survey) error {
	f.nextID++
	s.ID = f.nextID
	for i := range s.Questions {
		s.Questions[i].SurveyID = s.ID
		if err := f.questions.Create(ctx, &s.Questions[i]); err != nil {
			return err
		}
	}
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSurveys) Update(ctx context.Context, s *models.Survey) error {
	if _, ok := f.rows[s.ID]; !ok {
		return apperrors.ErrSurveyNotFound
	}
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSurveys) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrSurveyNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeQuestions struct {
	rows   map[int64]*models.Question
	nextID int64
}

func (f *fakeQuestions) ListBySurvey(ctx context.Context, surveyID int64) ([]models.Question, error) {
	out := []models.Question{}
	for _, q := range f.rows {
		if q.SurveyID == surveyID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeQuestions) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	q, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestions) NextOrder(ctx context.Context, surveyID int64) (int, error) {
	max := 0
	for _, q := range f.rows {
		if q.SurveyID == surveyID && q.Order > max {
			max = q.Order
		}
	}
	return max + 1, nil
}

func (f *fakeQuestions) Create(ctx context.Context, q *models.Question) error {
	f.nextID++
	q.ID = f.nextID
	cp := *q
	f.rows[q.ID] = &cp
	return nil
}

func (f *fakeQuestions) Update(ctx context.Context, q *models.Question) error {
	if _, ok := f.rows[q.ID]; !ok {
		return apperrors.ErrQuestionNotFound
	}
	cp := *q
	f.rows[q.ID] = &cp
	return nil
}

func (f *fakeQuestions) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrQuestionNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeResponses struct {
	rows      []*models.Response
	questions *fakeQuestions
}

func (f *fakeResponses) CreateBatch(ctx context.Context, responses []*models.Response) error {
	for _, r := range responses {
		r.ID = int64(len(f.rows) + 1)
		f.rows = append(f.rows, r)
	}
	return nil
}

func (f *fakeResponses) HasResponded(ctx context.Context, surveyID, graduateID int64) (bool, error) {
	for _, r := range f.rows {
		q, ok := f.questions.rows[r.QuestionID]
		if ok && q.SurveyID == surveyID && r.GraduateID == graduateID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResponses) ListBySurvey(ctx context.Context, surveyID int64) ([]*models.Response, error) {
	out := []*models.Response{}
	for _, r := range f.rows {
		if q, ok := f.questions.rows[r.QuestionID]; ok && q.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	rows map[string]*models.Profile
}

func newFakeProfiles(ps ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{rows: map[string]*models.Profile{}}
	for _, p := range ps {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	out := []*models.Profile{}
	for _, p := range f.rows {
		if filter.Role == nil || p.Role == *filter.Role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, p *models.Profile) error {
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) Update(ctx context.Context, p *models.Profile) error {
	if _, ok := f.rows[p.ID]; !ok {
		return apperrors.ErrProfileNotFound
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

type fakeDispatcher struct {
	mu         sync.Mutex
	single     []email.Message
	broadcasts [][]email.Message
}

func (f *fakeDispatcher) SendAsync(msg email.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.single = append(f.single, msg)
}

func (f *fakeDispatcher) BroadcastAsync(label string, msgs []email.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, msgs)
}

type fakeNotifications struct {
	announced []int64
	resets    []string
	err       error
}

func (f *fakeNotifications) NotifyNewWorkshop(ctx context.Context, w *models.Workshop) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.announced = append(f.announced, w.ID)
	return 1, nil
}

func (f *fakeNotifications) SendPasswordReset(ctx context.Context, to, name, link string) error {
	f.resets = append(f.resets, to+"|"+link)
	return nil
}

type fakeProvider struct {
	users       map[string]*authprovider.User // by token
	passwords   map[string]string             // email -> password
	recoveryErr error
	created     []string
}

func (f *fakeProvider) ResolveUser(ctx context.Context, token string) (*authprovider.User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return u, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*authprovider.Session, error) {
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &authprovider.Session{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		User:         authprovider.User{ID: "uid-" + email, Email: email},
	}, nil
}

func (f *fakeProvider) GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error) {
	if f.recoveryErr != nil {
		return "", f.recoveryErr
	}
	return "https://auth.example/recover?email=" + email + "&redirect_to=" + redirectTo, nil
}

func (f *fakeProvider) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*authprovider.User, error) {
	for _, c := range f.created {
		if c == email {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}
	f.created = append(f.created, email)
	return &authprovider.User{ID: "11111111-1111-1111-1111-11111111111" + string(rune('0'+len(f.created))), Email: email}, nil
}

type fakeReports struct {
	err error
}

func (f *fakeReports) GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error) {
	return []models.ProgramCount{{Program: "Sistemas", Count: 3}}, f.err
}

func (f *fakeReports) GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error) {
	return []models.ZoneCount{{Zone: "Norte", Count: 2}}, nil
}

func (f *fakeReports) EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error) {
	return []models.WorkshopEnrollmentStats{{WorkshopID: 1, Title: "Go", Enrolled: 4, Certified: 1}}, nil
}

func (f *fakeReports) AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error) {
	return []models.WorkshopAttendanceStats{{WorkshopID: 1, Title: "Go", Present: 5}}, nil
}

func ptr[T any](v T) *T { return &v }
