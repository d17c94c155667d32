package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadiness struct {
	err error
}

func (s *stubReadiness) CheckReadiness(_ context.Context) error {
	return s.err
}

func testServer(t *testing.T, ready ReadinessChecker) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", ready, dir, logger), dir
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, &stubReadiness{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv, _ := testServer(t, &stubReadiness{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("not ready", func(t *testing.T) {
		srv, _ := testServer(t, &stubReadiness{err: errors.New("analysis has not completed yet")})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
		assert.Contains(t, body["error"], "not completed")
	})
}

func TestMetrics(t *testing.T) {
	srv, _ := testServer(t, &stubReadiness{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestReportFiles(t *testing.T) {
	srv, dir := testServer(t, &stubReadiness{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("rows loaded 42\n"), 0o644))

	t.Run("existing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/report.txt", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "rows loaded 42")
	})

	t.Run("missing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/missing.png", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, &stubReadiness{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
