package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

type stubJobs struct {
	jobs      []domain.JobPosting
	createErr error
	listErr   error
}

func (s *stubJobs) Create(_ domain.Context, p domain.JobPosting) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("job-%d", len(s.jobs)+1)
	}
	p.ID = id
	s.jobs = append(s.jobs, p)
	return id, nil
}

func (s *stubJobs) Get(_ domain.Context, id string) (domain.JobPosting, error) {
	for _, j := range s.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.JobPosting{}, fmt.Errorf("op=posting.get: %w", domain.ErrNotFound)
}

func (s *stubJobs) List(_ domain.Context, f domain.JobFilter) ([]domain.JobPosting, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := s.jobs
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *stubJobs) Count(_ domain.Context) (int, error) { return len(s.jobs), nil }

const driverResume = `Jean Dupont
Chauffeur professionnel, Permis C et FIMO a jour.
Experience: 2015-2023 chez TransRhone, livraisons regionales.
Ponctualite irreprochable, bon contact client.`

func driverJob() domain.JobPosting {
	return domain.JobPosting{
		ID:           "job-1",
		Title:        "Chauffeur Poids Lourd",
		Company:      "TransExpress",
		Location:     "Lyon, France",
		Salary:       32000,
		Industry:     "transport",
		Description:  "Livraisons regionales au depart de Lyon. Minimum 3 years of experience.",
		Requirements: []string{"Permis C", "FIMO"},
	}
}

func newTestServer(jobs *stubJobs) *httpserver.Server {
	match := usecase.NewMatchService(jobs, nil,
		&score.DeterministicScorer{ReferenceYear: 2024},
		&score.SemanticScorer{},
		&score.BonusScorer{},
		&score.Explainer{},
		time.Hour)
	triage := usecase.NewTriageService(jobs, match, 3, 2)
	return httpserver.NewServer(config.Config{AppEnv: "test"}, match, triage, jobs, nil, nil)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestMatchHandler_InlineJob(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	body, err := json.Marshal(map[string]any{
		"resume_text": driverResume,
		"job": map[string]any{
			"title":        "Chauffeur Poids Lourd",
			"company":      "TransExpress",
			"location":     "Lyon, France",
			"salary":       32000,
			"industry":     "transport",
			"description":  "Minimum 3 years of experience.",
			"requirements": []string{"Permis C", "FIMO"},
		},
	})
	require.NoError(t, err)

	rec := postJSON(t, s.MatchHandler(), string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var m domain.DetailedMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "Chauffeur Poids Lourd", m.JobTitle)
	assert.Greater(t, m.MatchScore, 30.0)
	assert.NotEmpty(t, m.Recommendation)
	assert.NotEmpty(t, m.Strengths)
}

func TestMatchHandler_ByJobID(t *testing.T) {
	t.Parallel()

	jobs := &stubJobs{jobs: []domain.JobPosting{driverJob()}}
	s := newTestServer(jobs)

	rec := postJSON(t, s.MatchHandler(), fmt.Sprintf(`{"resume_text":%q,"job_id":"job-1"}`, driverResume))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var m domain.DetailedMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "job-1", m.JobID)
}

func TestMatchHandler_JobNotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	rec := postJSON(t, s.MatchHandler(), fmt.Sprintf(`{"resume_text":%q,"job_id":"missing"}`, driverResume))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestMatchHandler_Validation(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})

	tests := []struct {
		name string
		body string
	}{
		{"missing resume", `{"job_id":"job-1"}`},
		{"invalid json", `{not json`},
		{"neither job nor id", fmt.Sprintf(`{"resume_text":%q}`, driverResume)},
		{"both job and id", fmt.Sprintf(`{"resume_text":%q,"job_id":"job-1","job":{"title":"X"}}`, driverResume)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := postJSON(t, s.MatchHandler(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
		})
	}
}

func TestMatchHandler_RejectsNonJSONAccept(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	s.MatchHandler()(rec, req)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestRankHandler(t *testing.T) {
	t.Parallel()

	other := driverJob()
	other.ID = "job-2"
	other.Title = "Data Scientist"
	other.Industry = "tech"
	other.Requirements = []string{"Python", "TensorFlow"}
	jobs := &stubJobs{jobs: []domain.JobPosting{driverJob(), other}}
	s := newTestServer(jobs)

	rec := postJSON(t, s.RankHandler(), fmt.Sprintf(`{"resume_text":%q}`, driverResume))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Matches []domain.DetailedMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Matches)
	assert.Equal(t, "job-1", res.Matches[0].JobID, "driver job should rank first")
}

func TestRankHandler_NoResumeListsJobs(t *testing.T) {
	t.Parallel()

	jobs := &stubJobs{jobs: []domain.JobPosting{driverJob()}}
	s := newTestServer(jobs)

	rec := postJSON(t, s.RankHandler(), `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Matches []domain.DetailedMatch `json:"matches"`
		Jobs    []domain.JobPosting    `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Matches)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "job-1", res.Jobs[0].ID)
}

func TestListJobsHandler(t *testing.T) {
	t.Parallel()

	jobs := &stubJobs{jobs: []domain.JobPosting{driverJob()}}
	s := newTestServer(jobs)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?industry=transport&limit=5", nil)
	rec := httptest.NewRecorder()
	s.ListJobsHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Jobs []domain.JobPosting `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Jobs, 1)
}

func TestListJobsHandler_BadQuery(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?min_salary=abc", nil)
	rec := httptest.NewRecorder()
	s.ListJobsHandler()(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJobHandler(t *testing.T) {
	t.Parallel()

	jobs := &stubJobs{}
	s := newTestServer(jobs)

	rec := postJSON(t, s.CreateJobHandler(), `{"title":"Magasinier","company":"LogiStock","salary":24000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "id")
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, "Magasinier", jobs.jobs[0].Title)
}

func TestCreateJobHandler_MissingTitle(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	rec := postJSON(t, s.CreateJobHandler(), `{"company":"LogiStock"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.HealthzHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	s.DBCheck = func(context.Context) error { return nil }
	s.RedisCheck = func(context.Context) error { return nil }

	rec := httptest.NewRecorder()
	s.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_DBDown(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubJobs{})
	s.DBCheck = func(context.Context) error { return errors.New("connection refused") }
	s.RedisCheck = func(context.Context) error { return nil }

	rec := httptest.NewRecorder()
	s.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
