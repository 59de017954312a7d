package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiv/internal/config"
	"archiv/internal/logging"
	"archiv/internal/model"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ch1.pdf"), []byte("%PDF-1.4"), 0o644))
	return &config.AppConfig{
		Environment: config.EnvDevelopment,
		Port:        "5000",
		Timezone:    "UTC",
		Documents: config.DocumentConfig{
			Dir:               dir,
			Backend:           config.BackendLocal,
			CacheMaxAgeSec:    3600,
			SendContentLength: true,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func TestNewServer(t *testing.T) {
	c := testConfig(t)
	log := logging.Discard()
	store, err := newStore(c, log)
	require.NoError(t, err)

	app, _, err := newServer(c, log, store, prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("document is served", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/ch1.pdf", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(body))
	})

	t.Run("courses are mounted", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/courses", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var courses []model.Course
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&courses))
		assert.NotEmpty(t, courses)
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/pdf/list", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("metrics exposes request counters", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "http_requests_total")
		assert.Contains(t, string(body), "go_goroutines")
	})

	t.Run("swagger document is served", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var doc struct {
			Host  string                    `json:"host"`
			Info  struct{ Title string }    `json:"info"`
			Paths map[string]map[string]any `json:"paths"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Equal(t, "Archiv API", doc.Info.Title)
		assert.Empty(t, doc.Host)
		assert.Contains(t, doc.Paths, "/api/pdf/list")
		assert.Contains(t, doc.Paths, "/pdfs/{filename}")
	})

	t.Run("swagger UI", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestNewServer_BadCourseFile(t *testing.T) {
	c := testConfig(t)
	c.CoursesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := newServer(c, logging.Discard(), nil, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestNewStore_UnknownBackend(t *testing.T) {
	c := testConfig(t)
	c.Documents.Backend = "ftp"

	_, err := newStore(c, logging.Discard())
	assert.ErrorContains(t, err, "unknown document backend")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "archiv "+version+"\n", out.String())
}

func TestListCommand(t *testing.T) {
	cfg = testConfig(t)
	var out, errOut bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetErr(&errOut)
	listCmd.SetContext(t.Context())

	require.NoError(t, runList(listCmd, nil))

	var docs []model.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "ch1.pdf", docs[0].Filename)
}
