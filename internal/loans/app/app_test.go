package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := Default()
	cfg.LogLevel = "error"
	cfg.Database.DSN = filepath.Join(dir, "loandesk.db")
	cfg.Auth.PepperFile = filepath.Join(dir, "pepper")
	cfg.Auth.JWTSecret = strongSecret
	return cfg
}

func TestNewServesRoutes(t *testing.T) {
	application, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	h := application.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := strings.NewReader(`{"email":"casey@example.com","password":"correct horse","first_name":"Casey","last_name":"Nguyen"}`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/signup", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out loansdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "customer", out.Data.Role)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "loandesk_audit_events_total")
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = EnvProduction
	cfg.Auth.JWTSecret = ""

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestMigrate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Migrate(cfg))
	// Applying again is a no-op.
	require.NoError(t, Migrate(cfg))
}

func TestRandomSecretOutsideProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })
}
