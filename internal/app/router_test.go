package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/ai-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-job-matcher/internal/app"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

type emptyJobs struct{}

func (emptyJobs) Create(_ domain.Context, _ domain.JobPosting) (string, error) { return "id", nil }
func (emptyJobs) Get(_ domain.Context, _ string) (domain.JobPosting, error) {
	return domain.JobPosting{}, domain.ErrNotFound
}
func (emptyJobs) List(_ domain.Context, _ domain.JobFilter) ([]domain.JobPosting, error) {
	return nil, nil
}
func (emptyJobs) Count(_ domain.Context) (int, error) { return 0, nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		AppEnv:           "test",
		RateLimitPerMin:  100,
		HTTPWriteTimeout: 30 * time.Second,
	}
	jobs := emptyJobs{}
	match := usecase.NewMatchService(jobs, nil,
		&score.DeterministicScorer{ReferenceYear: 2024},
		&score.SemanticScorer{},
		&score.BonusScorer{},
		&score.Explainer{},
		time.Hour)
	triage := usecase.NewTriageService(jobs, match, 3, 2)
	srv := httpserver.NewServer(cfg, match, triage, jobs, nil, nil)
	return app.BuildRouter(cfg, srv)
}

func TestBuildRouter_Health(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBuildRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRouter_ListJobs(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jobs")
}

func TestBuildRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{"https://a.com, https://b.com", []string{"https://a.com", "https://b.com"}},
		{"  ,  ", []string{"*"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, app.ParseOrigins(tt.in), "input %q", tt.in)
	}
}

type pingStub struct{ err error }

func (p pingStub) Ping(_ context.Context) error { return p.err }

func TestBuildReadinessChecks(t *testing.T) {
	t.Parallel()

	dbCheck, redisCheck := app.BuildReadinessChecks(pingStub{}, pingStub{err: errors.New("down")})
	assert.NoError(t, dbCheck(context.Background()))
	assert.Error(t, redisCheck(context.Background()))

	dbCheck, redisCheck = app.BuildReadinessChecks(nil, nil)
	assert.Error(t, dbCheck(context.Background()))
	assert.Error(t, redisCheck(context.Background()))
}
