package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Match      usecase.MatchService
	Triage     usecase.TriageService
	Jobs       domain.JobRepository
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, match usecase.MatchService, triage usecase.TriageService, jobs domain.JobRepository, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Match: match, Triage: triage, Jobs: jobs, DBCheck: dbCheck, RedisCheck: redisCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type candidateDTO struct {
	Location          string `json:"location" validate:"max=200"`
	SalaryExpectation int    `json:"salary_expectation" validate:"min=0"`
	PreferredTitle    string `json:"preferred_title" validate:"max=200"`
	Industry          string `json:"industry" validate:"max=100"`
}

func (c candidateDTO) toDomain() domain.CandidateProfile {
	return domain.CandidateProfile{
		Location:          c.Location,
		SalaryExpectation: c.SalaryExpectation,
		PreferredTitle:    c.PreferredTitle,
		Industry:          c.Industry,
	}
}

type jobDTO struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Company      string   `json:"company" validate:"max=200"`
	Location     string   `json:"location" validate:"max=200"`
	Salary       int      `json:"salary" validate:"min=0"`
	Industry     string   `json:"industry" validate:"max=100"`
	Description  string   `json:"description" validate:"max=20000"`
	Requirements []string `json:"requirements" validate:"max=50,dive,max=200"`
}

func (j jobDTO) toDomain() domain.JobPosting {
	return domain.JobPosting{
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Salary:       j.Salary,
		Industry:     j.Industry,
		Description:  j.Description,
		Requirements: j.Requirements,
	}
}

// acceptsJSON rejects requests that explicitly refuse JSON responses.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
		writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
			Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a},
		}})
		return false
	}
	return true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	// Cap body size to prevent abuse
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return false
	}
	if err := getValidator().Struct(req); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return false
	}
	return true
}

// MatchHandler scores one resume against one job, referenced by id or given
// inline, and returns the detailed match.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req struct {
			ResumeText string       `json:"resume_text" validate:"required,max=50000"`
			JobID      string       `json:"job_id" validate:"max=100"`
			Job        *jobDTO      `json:"job"`
			Candidate  candidateDTO `json:"candidate"`
		}
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if (req.JobID == "") == (req.Job == nil) {
			writeError(w, r, fmt.Errorf("%w: exactly one of job_id or job is required", domain.ErrInvalidArgument), nil)
			return
		}

		ctx := r.Context()
		var (
			m   domain.DetailedMatch
			err error
		)
		if req.JobID != "" {
			m, err = s.Match.ScoreJobByID(ctx, req.ResumeText, req.JobID, req.Candidate.toDomain())
		} else {
			m, err = s.Match.ScoreAgainstJob(ctx, req.ResumeText, req.Job.toDomain(), req.Candidate.toDomain())
		}
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		observability.ObserveMatch("match", m.MatchScore)
		writeJSON(w, http.StatusOK, m)
	}
}

// RankHandler runs the two-phase triage over the posting pool. With an empty
// resume it degrades to a plain filtered listing.
func (s *Server) RankHandler() http.HandlerFunc {
	type filterDTO struct {
		Industry  string `json:"industry" validate:"max=100"`
		Location  string `json:"location" validate:"max=200"`
		MinSalary int    `json:"min_salary" validate:"min=0"`
		Limit     int    `json:"limit" validate:"min=0,max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req struct {
			ResumeText string       `json:"resume_text" validate:"max=50000"`
			Filter     filterDTO    `json:"filter"`
			Candidate  candidateDTO `json:"candidate"`
		}
		if !decodeAndValidate(w, r, &req) {
			return
		}

		res, err := s.Triage.Rank(r.Context(), req.ResumeText, domain.JobFilter{
			Industry:  req.Filter.Industry,
			Location:  req.Filter.Location,
			MinSalary: req.Filter.MinSalary,
			Limit:     req.Filter.Limit,
		}, req.Candidate.toDomain())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		for _, m := range res.Matches {
			observability.ObserveMatch("rank", m.MatchScore)
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": res.Matches, "jobs": res.Jobs})
	}
}

// ListJobsHandler returns postings matching the query filters.
func (s *Server) ListJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := domain.JobFilter{
			Industry: q.Get("industry"),
			Location: q.Get("location"),
		}
		if v := q.Get("min_salary"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, r, fmt.Errorf("%w: min_salary must be a non-negative integer", domain.ErrInvalidArgument), nil)
				return
			}
			f.MinSalary = n
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidArgument), nil)
				return
			}
			f.Limit = n
		}

		jobs, err := s.Jobs.List(r.Context(), f)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if jobs == nil {
			jobs = []domain.JobPosting{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
	}
}

// CreateJobHandler stores a new posting.
func (s *Server) CreateJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req jobDTO
		if !decodeAndValidate(w, r, &req) {
			return
		}
		id, err := s.Jobs.Create(r.Context(), req.toDomain())
		if err != nil {
			writeError(w, r, fmt.Errorf("create posting: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// HealthzHandler reports process liveness.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes the DB and Redis dependencies.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
