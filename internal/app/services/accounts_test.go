package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/authprovider"
	"github.com/egresados/seguimiento-api/internal/pkg/email"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	g := sampleGraduate("1")
	docs := newFakeDocuments()
	store := newFakeObjectStore()
	svc := NewDocumentService(docs, newFakeGraduates(g), store, time.Hour, zerolog.Nop())

	d, err := svc.Upload(ctx, g.ID, UploadedFile{
		Name:        "Titulo.PDF",
		Size:        7,
		ContentType: "application/pdf",
		Content:     strings.NewReader("content"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.StoragePath, "graduados/1/"))
	assert.True(t, strings.HasSuffix(d.StoragePath, ".pdf"))
	assert.Equal(t, "Titulo.PDF", d.Name)
	assert.Equal(t, "content", store.objects[d.StoragePath])
	require.NotNil(t, d.MimeType)
	assert.Equal(t, "application/pdf", *d.MimeType)

	link, err := svc.SignedURL(ctx, d.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, d.StoragePath)
	assert.Equal(t, int64(3600), link.ExpiresIn)
}

func TestDocumentService_UploadRollsBackObject(t *testing.T) {
	ctx := context.Background()
	g := sampleGraduate("1")
	docs := newFakeDocuments()
	docs.createErr = errors.New("insert failed")
	store := newFakeObjectStore()
	svc := NewDocumentService(docs, newFakeGraduates(g), store, time.Hour, zerolog.Nop())

	_, err := svc.Upload(ctx, g.ID, UploadedFile{Name: "a.pdf", Content: strings.NewReader("x")})
	require.Error(t, err)
	assert.Empty(t, store.objects)
	require.Len(t, store.calls, 2)
	assert.True(t, strings.HasPrefix(store.calls[1], "delete:"))

	_, err = svc.Upload(ctx, 404, UploadedFile{Name: "a.pdf", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperrors.ErrGraduateNotFound)
}

func TestDocumentService_DeleteToleratesStorageFailure(t *testing.T) {
	ctx := context.Background()
	g := sampleGraduate("1")
	docs := newFakeDocuments()
	store := newFakeObjectStore()
	svc := NewDocumentService(docs, newFakeGraduates(g), store, time.Hour, zerolog.Nop())

	d, err := svc.Create(ctx, dto.CreateDocumentRequest{GraduateID: g.ID, Name: "acta.pdf", StoragePath: "graduados/1/acta.pdf"})
	require.NoError(t, err)

	store.deleteErr = errors.New("bucket unavailable")
	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.Empty(t, docs.rows)
	assert.Equal(t, []string{"delete:graduados/1/acta.pdf"}, store.calls)

	assert.ErrorIs(t, svc.Delete(ctx, d.ID), apperrors.ErrDocumentNotFound)
}

func TestDocumentService_SignedURLMissingObject(t *testing.T) {
	ctx := context.Background()
	g := sampleGraduate("1")
	docs := newFakeDocuments()
	svc := NewDocumentService(docs, newFakeGraduates(g), newFakeObjectStore(), time.Minute, zerolog.Nop())

	d, err := svc.Create(ctx, dto.CreateDocumentRequest{GraduateID: g.ID, Name: "acta.pdf", StoragePath: "graduados/1/missing.pdf"})
	require.NoError(t, err)

	_, err = svc.SignedURL(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestNotificationService_NotifyNewWorkshop(t *testing.T) {
	ctx := context.Background()
	graduates := newFakeGraduates()
	graduates.recipients = []models.Recipient{
		{GraduateID: 1, Name: "Ana", Email: "Ana@Example.com"},
		{GraduateID: 2, Name: "Ana bis", Email: "ana@example.com "},
		{GraduateID: 3, Name: "Luis", Email: "luis@example.com"},
		{GraduateID: 4, Name: "Sin correo", Email: ""},
	}
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(graduates, dispatcher, "Egresados", "https://app.example/", zerolog.Nop())

	start := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	n, err := svc.NotifyNewWorkshop(ctx, &models.Workshop{ID: 7, Title: "Go", StartsAt: &start, AreaIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, dispatcher.broadcasts, 1)
	msgs := dispatcher.broadcasts[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, "Ana@Example.com", msgs[0].To)
	assert.Equal(t, "luis@example.com", msgs[1].To)
	assert.Equal(t, email.KindNewWorkshop, msgs[0].Kind)
	assert.Contains(t, msgs[0].Subject, "Go")
	assert.Contains(t, msgs[0].HTML, "https://app.example/talleres/7")
	assert.Contains(t, msgs[0].HTML, "2026-06-01")
}

func TestNotificationService_NoAreasNoMessages(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(newFakeGraduates(), dispatcher, "Egresados", "", zerolog.Nop())

	n, err := svc.NotifyNewWorkshop(context.Background(), &models.Workshop{ID: 1, Title: "Go"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, dispatcher.broadcasts)
}

func TestNotificationService_SendPasswordReset(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(newFakeGraduates(), dispatcher, "Egresados", "", zerolog.Nop())

	require.NoError(t, svc.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "https://auth.example/r?x=1"))
	require.Len(t, dispatcher.single, 1)
	assert.Equal(t, "ana@example.com", dispatcher.single[0].To)
	assert.Equal(t, email.KindPasswordReset, dispatcher.single[0].Kind)
	assert.Contains(t, dispatcher.single[0].HTML, "https://auth.example/r?x=1")
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{passwords: map[string]string{"ana@example.com": "secret"}}
	profiles := newFakeProfiles(&models.Profile{ID: "uid-ana@example.com", Email: "ana@example.com", Name: "Ana", Role: models.RoleAdministrator})
	svc := NewAuthService(provider, profiles, &fakeNotifications{}, "", zerolog.Nop())

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: " ANA@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "access-ana@example.com", resp.AccessToken)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, models.RoleAdministrator, resp.Profile.Role)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// An account without a profile can still sign in.
	provider.passwords["luis@example.com"] = "pw"
	resp, err = svc.Login(ctx, dto.LoginRequest{Email: "luis@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Nil(t, resp.Profile)
}

func TestAuthService_RequestPasswordResetNeverLeaks(t *testing.T) {
	ctx := context.Background()
	notes := &fakeNotifications{}
	provider := &fakeProvider{}
	svc := NewAuthService(provider, newFakeProfiles(), notes, "https://app.example/reset", zerolog.Nop())

	require.NoError(t, svc.RequestPasswordReset(ctx, "Ana@example.com"))
	require.Len(t, notes.resets, 1)
	assert.Contains(t, notes.resets[0], "redirect_to=https://app.example/reset")

	provider.recoveryErr = apperrors.ErrResourceNotFound
	assert.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Len(t, notes.resets, 1)

	assert.ErrorIs(t, svc.RequestPasswordReset(ctx, " "), apperrors.ErrValidationFailed)
}

func TestUserService_CreateAndMe(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	graduates := newFakeGraduates()
	svc := NewUserService(provider, profiles, graduates, zerolog.Nop())

	p, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "ana@example.com", Password: "secret1", Name: "Ana", Role: "graduado"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGraduate, p.Role)
	assert.Contains(t, profiles.rows, p.ID)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Email: "ana@example.com", Password: "secret1", Name: "Ana", Role: "graduado"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Email: "x@example.com", Password: "secret1", Name: "X", Role: "rector"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)

	g := sampleGraduate("1")
	g.ProfileID = &p.ID
	require.NoError(t, graduates.Create(ctx, g))

	me, err := svc.Me(ctx, &authprovider.User{ID: p.ID, Email: p.Email})
	require.NoError(t, err)
	assert.Equal(t, p.ID, me.Profile.ID)
	require.NotNil(t, me.Graduate)
	assert.Equal(t, g.ID, me.Graduate.ID)

	_, err = svc.Me(ctx, &authprovider.User{ID: "11111111-2222-3333-4444-555555555555"})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	id := "0b7c1e4a-9a53-4a43-9c3f-1a2b3c4d5e6f"
	profiles := newFakeProfiles(&models.Profile{ID: id, Email: "ana@example.com", Name: "Ana", Role: models.RoleGraduate})
	svc := NewUserService(&fakeProvider{}, profiles, newFakeGraduates(), zerolog.Nop())

	p, err := svc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{Role: ptr("facilitador")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleFacilitator, p.Role)
	assert.Equal(t, models.RoleFacilitator, profiles.rows[id].Role)

	_, err = svc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.GetProfile(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	role := models.RoleFacilitator
	list, err := svc.ListUsers(ctx, models.ProfileFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
