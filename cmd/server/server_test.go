package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/flashcards/internal/api"
	apiMiddleware "github.com/phrazzld/flashcards/internal/api/middleware"
	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:               8080,
			LogLevel:           "debug",
			CORSAllowedOrigins: []string{"http://localhost:8080"},
			ShutdownTimeout:    5 * time.Second,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: "file::memory:"},
		Sweep:    config.SweepConfig{Enabled: true, Interval: time.Hour},
		SRS:      srs.ParamsConfig{},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	log, _ := logger.NewTestLogger()
	app, err := newApplication(testConfig(), log, testdb.OpenSQLite(t))
	require.NoError(t, err)
	return app
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApplicationRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Database.Driver = "mysql"
	log, _ := logger.NewTestLogger()

	_, err := newApplication(cfg, log, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewApplicationSweepDisabled(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Sweep.Enabled = false
	log, _ := logger.NewTestLogger()

	app, err := newApplication(cfg, log, testdb.OpenSQLite(t))
	require.NoError(t, err)
	assert.Nil(t, app.sweeper)
	assert.NotNil(t, app.cardService)
	assert.NotNil(t, app.cardReviewService)
}

func TestRouterHealth(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	rec := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(apiMiddleware.TraceIDHeader))
}

func TestRouterStudyFlow(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/cards/next", "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "empty store has nothing due")

	rec = doRequest(t, router, http.MethodPost, "/api/cards", `{"front":"2+2","back":"4"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created api.CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 2.5, created.EaseFactor)

	rec = doRequest(t, router, http.MethodGet, "/api/cards/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var next api.CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
	assert.Equal(t, created.ID, next.ID)

	rec = doRequest(t, router, http.MethodPost, "/api/cards/"+created.ID+"/review", `{"difficulty":"Easy"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reviewed api.CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviewed))
	assert.Equal(t, 3.0, reviewed.EaseFactor)
	assert.Equal(t, 2.5, reviewed.Interval)

	rec = doRequest(t, router, http.MethodGet, "/api/cards/next", "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "reviewed card is scheduled in the future")

	rec = doRequest(t, router, http.MethodDelete, "/api/cards/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, router, http.MethodGet, "/api/cards/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterCORS(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/cards", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	require.NoError(t, app.sweeper.Start(context.Background()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := app.newHTTPServer(app.setupRouter())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, server, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Error(t, app.db.Ping(), "database is closed on shutdown")
}

func TestRunMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cards.db")

	err := run(context.Background(), []string{
		"--database-driver", "sqlite",
		"--database-url", "file:" + dbPath,
		"--migrate", "up",
	})
	require.NoError(t, err)

	err = run(context.Background(), []string{
		"--database-driver", "sqlite",
		"--database-url", "file:" + dbPath,
		"--migrate", "sideways",
	})
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestRunRejectsBadFlags(t *testing.T) {
	err := run(context.Background(), []string{"--no-such-flag"})
	assert.Error(t, err)
}
