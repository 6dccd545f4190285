package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/egresados/seguimiento-api/internal/app/controllers"
	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fakes ---

type memAreaService struct {
	mu     sync.Mutex
	nextID int64
	areas  []*models.Area
	prefs  map[int64][]int64
}

func newMemAreaService() *memAreaService {
	return &memAreaService{prefs: map[int64][]int64{}}
}

func (s *memAreaService) List(ctx context.Context) ([]*models.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Area, len(s.areas))
	copy(out, s.areas)
	return out, nil
}

func (s *memAreaService) Create(ctx context.Context, req dto.CreateAreaRequest) (*models.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.areas {
		if strings.EqualFold(a.Name, req.Name) {
			return nil, apperrors.ErrAreaExists
		}
	}
	s.nextID++
	area := &models.Area{ID: s.nextID, Name: req.Name, Description: req.Description}
	s.areas = append(s.areas, area)
	return area, nil
}

func (s *memAreaService) Update(ctx context.Context, id int64, req dto.UpdateAreaRequest) (*models.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.areas {
		if a.ID == id {
			if req.Name != nil {
				a.Name = *req.Name
			}
			return a, nil
		}
	}
	return nil, apperrors.ErrAreaNotFound
}

func (s *memAreaService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.areas {
		if a.ID == id {
			s.areas = append(s.areas[:i], s.areas[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrAreaNotFound
}

func (s *memAreaService) ListPreferences(ctx context.Context, graduateID int64) ([]*models.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Area
	for _, id := range s.prefs[graduateID] {
		for _, a := range s.areas {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (s *memAreaService) ReplacePreferences(ctx context.Context, req dto.ReplacePreferencesRequest) (*dto.PreferencesResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[req.GraduateID] = append([]int64(nil), req.PreferenceIDs...)
	return &dto.PreferencesResponse{GraduateID: req.GraduateID, PreferenceIDs: req.PreferenceIDs}, nil
}

type memEnrollmentService struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.Enrollment
}

func (s *memEnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Enrollment(nil), s.rows...), nil
}

func (s *memEnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.rows {
		if e.GraduateID == req.GraduateID && e.WorkshopID == req.WorkshopID {
			return nil, apperrors.ErrEnrollmentExists
		}
	}
	s.nextID++
	e := &models.Enrollment{ID: s.nextID, GraduateID: req.GraduateID, WorkshopID: req.WorkshopID, Status: models.EnrollmentEnrolled}
	s.rows = append(s.rows, e)
	return e, nil
}

func (s *memEnrollmentService) Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	return nil, apperrors.ErrEnrollmentNotFound
}

func (s *memEnrollmentService) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrEnrollmentNotFound
}

type stubReportService struct{}

func (stubReportService) GraduatesByProgram(ctx context.Context) ([]models.ProgramCount, error) {
	return []models.ProgramCount{{Program: "Sistemas", Count: 3}, {Program: "Contabilidad", Count: 1}}, nil
}

func (stubReportService) GraduatesByZone(ctx context.Context) ([]models.ZoneCount, error) {
	return []models.ZoneCount{{Zone: "Norte", Count: 4}}, nil
}

func (stubReportService) EnrollmentsByWorkshop(ctx context.Context) ([]models.WorkshopEnrollmentStats, error) {
	return nil, nil
}

func (stubReportService) AttendanceByWorkshop(ctx context.Context) ([]models.WorkshopAttendanceStats, error) {
	return nil, nil
}

func (stubReportService) Overview(ctx context.Context) (*services.ReportOverview, error) {
	return &services.ReportOverview{}, nil
}

type tokenProvider map[string]*authprovider.User

func (p tokenProvider) ResolveUser(ctx context.Context, token string) (*authprovider.User, error) {
	if u, ok := p[token]; ok {
		return u, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

func (p tokenProvider) SignIn(ctx context.Context, email, password string) (*authprovider.Session, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (p tokenProvider) GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error) {
	return "", nil
}

func (p tokenProvider) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*authprovider.User, error) {
	return nil, apperrors.ErrEmailAlreadyExists
}

type profileMap map[string]*models.Profile

func (m profileMap) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProfileNotFound
}

// --- harness ---

type testAPI struct {
	router      *gin.Engine
	areas       *memAreaService
	enrollments *memEnrollmentService
}

func newTestAPI() *testAPI {
	areas := newMemAreaService()
	enrollments := &memEnrollmentService{}

	provider := tokenProvider{
		"admin-token":    {ID: "admin-id", Email: "admin@example.org"},
		"graduate-token": {ID: "graduate-id", Email: "egresado@example.org"},
		"orphan-token":   {ID: "orphan-id", Email: "orphan@example.org"},
	}
	profiles := profileMap{
		"admin-id":    {ID: "admin-id", Role: models.RoleAdministrator},
		"graduate-id": {ID: "graduate-id", Role: models.RoleGraduate},
	}
	authMiddleware := middleware.NewAuthMiddleware(provider, profiles, "", zerolog.Nop())

	router := gin.New()
	SetupRouter(router, Controllers{
		Area:       controllers.NewAreaController(areas),
		Enrollment: controllers.NewEnrollmentController(enrollments, nil),
		Report:     controllers.NewReportController(stubReportService{}),
	}, authMiddleware)

	return &testAPI{router: router, areas: areas, enrollments: enrollments}
}

func (api *testAPI) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func decodeData(t *testing.T, resp dto.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

// --- scenarios ---

func TestAreasLifecycle(t *testing.T) {
	api := newTestAPI()

	w, resp := api.do(t, http.MethodPost, "/api/areas", map[string]string{"nombre_area": "Tecnología"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Area
	decodeData(t, resp, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Tecnología", created.Name)

	w, resp = api.do(t, http.MethodGet, "/api/areas", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Area
	decodeData(t, resp, &listed)
	assert.Contains(t, listed, created)

	w, _ = api.do(t, http.MethodDelete, "/api/areas/"+strconv.FormatInt(created.ID, 10), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(t, http.MethodGet, "/api/areas", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	listed = nil
	decodeData(t, resp, &listed)
	assert.NotContains(t, listed, created)

	w, _ = api.do(t, http.MethodDelete, "/api/areas/"+strconv.FormatInt(created.ID, 10), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAreas_Validation(t *testing.T) {
	api := newTestAPI()

	w, resp := api.do(t, http.MethodPost, "/api/areas", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	api.do(t, http.MethodPost, "/api/areas", map[string]string{"nombre_area": "Salud"}, "")
	w, resp = api.do(t, http.MethodPost, "/api/areas", map[string]string{"nombre_area": "salud"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, resp.Error.Code)

	w, _ = api.do(t, http.MethodDelete, "/api/areas/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateEnrollment(t *testing.T) {
	api := newTestAPI()
	body := map[string]int64{"graduado_id": 7, "taller_id": 3}

	w, resp := api.do(t, http.MethodPost, "/api/inscripciones", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var enrollment models.Enrollment
	decodeData(t, resp, &enrollment)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)

	w, resp = api.do(t, http.MethodPost, "/api/inscripciones", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeConflict, resp.Error.Code)

	assert.Len(t, api.enrollments.rows, 1)
}

func TestEnrollment_MissingFields(t *testing.T) {
	api := newTestAPI()

	w, _ := api.do(t, http.MethodPost, "/api/inscripciones", map[string]int64{"graduado_id": 7}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.enrollments.rows)
}

func TestReplacePreferences(t *testing.T) {
	api := newTestAPI()
	api.do(t, http.MethodPost, "/api/areas", map[string]string{"nombre_area": "Idiomas"}, "")

	w, _ := api.do(t, http.MethodPost, "/api/preferencias", map[string]interface{}{"graduado_id": 5, "preferenceIds": []int64{1}}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := api.do(t, http.MethodGet, "/api/preferencias/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var areas []models.Area
	decodeData(t, resp, &areas)
	assert.Len(t, areas, 1)

	w, resp = api.do(t, http.MethodPost, "/api/preferencias", map[string]interface{}{"graduado_id": 5, "preferenceIds": []int64{}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cleared dto.PreferencesResponse
	decodeData(t, resp, &cleared)
	assert.Empty(t, cleared.PreferenceIDs)

	w, resp = api.do(t, http.MethodGet, "/api/preferencias/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resp.Data)

	w, _ = api.do(t, http.MethodPost, "/api/preferencias", map[string]interface{}{"graduado_id": 5}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "preferenceIds must be present")
}

func TestReports_AdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"unknown token", "bogus", http.StatusUnauthorized},
		{"account without profile", "orphan-token", http.StatusForbidden},
		{"graduate", "graduate-token", http.StatusForbidden},
		{"administrator", "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			w, resp := api.do(t, http.MethodGet, "/api/reportes/graduados-por-carrera", nil, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var rows []map[string]interface{}
				decodeData(t, resp, &rows)
				require.Len(t, rows, 2)
				assert.Equal(t, "Sistemas", rows[0]["carrera"])
				assert.EqualValues(t, 3, rows[0]["cantidad"])
			} else {
				assert.False(t, resp.Success)
			}
		})
	}
}

func TestReports_AllAdminRoutes(t *testing.T) {
	api := newTestAPI()
	for _, path := range []string{
		"/api/reportes/graduados-por-zona",
		"/api/reportes/inscripciones-por-taller",
		"/api/reportes/asistencia-por-taller",
		"/api/reportes/resumen",
	} {
		w, _ := api.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w, _ = api.do(t, http.MethodGet, path, nil, "admin-token")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
