package filestorage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "graduados/3/acta grado.pdf", strings.NewReader("pdf"), "application/pdf"))

	content, err := os.ReadFile(filepath.Join(dir, "graduados", "3", "acta grado.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(content))

	link, err := store.SignedURL(ctx, "graduados/3/acta grado.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/uploads/graduados/3/acta%20grado.pdf?expires="))

	require.NoError(t, store.Delete(ctx, "graduados/3/acta grado.pdf"))
	require.NoError(t, store.Delete(ctx, "graduados/3/acta grado.pdf"), "deleting twice is not an error")

	_, err = store.SignedURL(ctx, "graduados/3/acta grado.pdf", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	err = store.Upload(context.Background(), "", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrInvalidPath)

	cleaned, err := cleanObjectPath("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", cleaned)
}

func TestSupabaseStorage_DeleteAndSign(t *testing.T) {
	var deleted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/storage/v1/object/documentos":
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			deleted = append(deleted, body["prefixes"]...)
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/sign/documentos/graduados/1/cv.pdf":
			var body map[string]int64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(600), body["expiresIn"])
			_, _ = w.Write([]byte(`{"signedURL":"/object/sign/documentos/graduados/1/cv.pdf?token=t"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewSupabaseStorage(srv.URL, "documentos", "service", zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "graduados/1/cv.pdf"))
	assert.Equal(t, []string{"graduados/1/cv.pdf"}, deleted)

	link, err := store.SignedURL(ctx, "graduados/1/cv.pdf", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/documentos/graduados/1/cv.pdf?token=t", link)

	_, err = store.SignedURL(ctx, "graduados/1/missing.pdf", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
