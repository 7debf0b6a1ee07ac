package publish

import (
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/storage"
)

func buildKpar(t *testing.T, name, version string) string {
	t.Helper()
	p := storage.NewMemoryProject()
	require.NoError(t, p.PutInfo(kip.InfoRaw{Name: name, Version: version}, true))
	require.NoError(t, p.PutMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}, true))

	dest := filepath.Join(t.TempDir(), "package.kpar")
	require.NoError(t, storage.BuildKpar(p, dest))
	return dest
}

func TestUploadSucceedsOnCreated(t *testing.T) {
	var gotPurl string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPurl = r.FormValue("purl")
		_, _, err = r.FormFile("file")
		require.NoError(t, err)
		_ = params

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer server.Close()

	kparPath := buildKpar(t, "widget", "1.0.0")

	resp, err := Upload(kparPath, server.URL, BearerToken{Token: "secret"}, server.Client())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.True(t, resp.IsNewProject)
	assert.Equal(t, "created", resp.Message)
	assert.Equal(t, "pkg:sysand/widget@1.0.0", gotPurl)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestUploadReturnsConflictError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("already published"))
	}))
	defer server.Close()

	kparPath := buildKpar(t, "widget", "1.0.0")
	_, err := Upload(kparPath, server.URL, NoAuth{}, server.Client())
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUploadReturnsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	kparPath := buildKpar(t, "widget", "1.0.0")
	_, err := Upload(kparPath, server.URL, NoAuth{}, server.Client())
	require.Error(t, err)
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestUploadReturnsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	kparPath := buildKpar(t, "widget", "1.0.0")
	_, err := Upload(kparPath, server.URL, NoAuth{}, server.Client())
	require.Error(t, err)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
}
