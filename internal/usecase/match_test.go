package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

// stubJobs is an in-memory JobRepository.
type stubJobs struct {
	jobs    []domain.JobPosting
	listErr error
}

func (s *stubJobs) Create(_ domain.Context, p domain.JobPosting) (string, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("job-%d", len(s.jobs)+1)
	}
	s.jobs = append(s.jobs, p)
	return p.ID, nil
}

func (s *stubJobs) Get(_ domain.Context, id string) (domain.JobPosting, error) {
	for _, j := range s.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.JobPosting{}, fmt.Errorf("get job: %w", domain.ErrNotFound)
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

// memCache is an in-memory MatchCache counting operations.
type memCache struct {
	m    map[string]domain.DetailedMatch
	sets int
	gets int
}

func newMemCache() *memCache { return &memCache{m: map[string]domain.DetailedMatch{}} }

func (c *memCache) Get(_ domain.Context, key string) (domain.DetailedMatch, bool, error) {
	c.gets++
	m, ok := c.m[key]
	return m, ok, nil
}

func (c *memCache) Set(_ domain.Context, key string, m domain.DetailedMatch, _ time.Duration) error {
	c.sets++
	c.m[key] = m
	return nil
}

// newMatchService wires a MatchService without an oracle: semantic and bonus
// dimensions degrade to zero, deterministic scoring and the template
// explainer still work.
func newMatchService(jobs *stubJobs, cache domain.MatchCache) usecase.MatchService {
	return usecase.NewMatchService(
		jobs, cache,
		&score.DeterministicScorer{ReferenceYear: 2024},
		&score.SemanticScorer{},
		&score.BonusScorer{},
		&score.Explainer{},
		time.Hour,
	)
}

func driverJob() domain.JobPosting {
	return domain.JobPosting{
		ID:           "job-1",
		Title:        "Chauffeur Poids Lourd",
		Company:      "TransExpress",
		Location:     "Lyon",
		Salary:       32000,
		Industry:     "transport",
		Description:  "Chauffeur expérimenté pour livraisons régionales. Minimum 3 years of experience.",
		Requirements: []string{"Permis C", "FIMO"},
	}
}

const driverResume = "Chauffeur PL 2016-2024. Permis B, C, CE. FIMO à jour. Basé à Lyon. Licence professionnelle transport."

func TestMatchService_Validation(t *testing.T) {
	t.Parallel()
	svc := newMatchService(&stubJobs{}, nil)
	ctx := context.Background()

	_, err := svc.ScoreAgainstJob(ctx, "", driverJob(), domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.ScoreAgainstJob(ctx, driverResume, domain.JobPosting{}, domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMatchService_ScoreAgainstJob(t *testing.T) {
	t.Parallel()
	svc := newMatchService(&stubJobs{}, nil)

	m, err := svc.ScoreAgainstJob(context.Background(), driverResume, driverJob(), domain.CandidateProfile{
		Location:          "Lyon",
		SalaryExpectation: 30000,
	})
	require.NoError(t, err)

	assert.Equal(t, "job-1", m.JobID)
	assert.Equal(t, "Chauffeur Poids Lourd", m.JobTitle)
	// Without an oracle only the deterministic group contributes.
	assert.Equal(t, m.ScoreBreakdown.Deterministic.Total(), m.MatchScore)
	assert.GreaterOrEqual(t, m.MatchScore, 35.0)
	assert.Equal(t, 0.0, m.ScoreBreakdown.Semantic.Total())
	assert.Equal(t, 0.0, m.ScoreBreakdown.Bonus.Total())
	assert.NotEmpty(t, m.OverallExplanation)
	assert.NotEmpty(t, m.Strengths)
	assert.NotEmpty(t, m.Recommendation)
	assert.Equal(t, 32000, m.Salary)
	assert.Equal(t, "Lyon", m.Location)
}

// gateOracle refuses to credit any oracle-judged dimension: zero relevant
// years, no matched soft skills, zero on every scored rubric.
type gateOracle struct{}

func (gateOracle) Complete(_ domain.Context, prompt string, _ int) (string, error) {
	switch {
	case strings.Contains(prompt, "RELEVANT_YEARS"):
		return "RELEVANT_YEARS: 0\nEXPLANATION: No transport experience found.", nil
	case strings.Contains(prompt, "MATCHED"):
		return "MATCHED: []", nil
	default:
		return "SCORE: 0\nEXPLANATION: Profile is unrelated to this role.", nil
	}
}

func TestMatchService_UnrelatedProfileScoresLow(t *testing.T) {
	t.Parallel()
	gw := score.NewGateway(gateOracle{}, 0)
	svc := usecase.NewMatchService(
		&stubJobs{}, nil,
		&score.DeterministicScorer{Oracle: gw, ReferenceYear: 2024},
		&score.SemanticScorer{Oracle: gw},
		&score.BonusScorer{Oracle: gw},
		&score.Explainer{Oracle: gw},
		time.Hour,
	)

	// Ten years of data science against a truck driving posting. The oracle
	// gates relevance, so raw seniority must not inflate the score.
	const resume = "Data Scientist 2014-2024. Python, machine learning, TensorFlow, SQL pipelines. PhD in statistics. Based in Paris."

	m, err := svc.ScoreAgainstJob(context.Background(), resume, driverJob(), domain.CandidateProfile{})
	require.NoError(t, err)

	assert.Less(t, m.MatchScore, 40.0)
	assert.InDelta(t, m.ScoreBreakdown.TotalScore(), m.MatchScore, 1e-9)
	assert.Equal(t, 0.0, m.ScoreBreakdown.Semantic.Total())
	assert.Equal(t, 0.0, m.ScoreBreakdown.Bonus.Total())

	exp := m.ScoreBreakdown.Deterministic.ExperienceYears
	assert.Equal(t, 0, exp.Metadata["resume_years"])
	assert.LessOrEqual(t, exp.Score, 4.0)
	assert.Contains(t, exp.Explanation, "No transport experience")
	assert.NotEmpty(t, m.Weaknesses)
}

func TestMatchService_CachesStoredPostings(t *testing.T) {
	t.Parallel()
	cache := newMemCache()
	svc := newMatchService(&stubJobs{}, cache)
	ctx := context.Background()

	first, err := svc.ScoreAgainstJob(ctx, driverResume, driverJob(), domain.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.ScoreAgainstJob(ctx, driverResume, driverJob(), domain.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.MatchScore, second.MatchScore)

	// Inline jobs (no ID) bypass the cache entirely.
	inline := driverJob()
	inline.ID = ""
	before := cache.gets
	_, err = svc.ScoreAgainstJob(ctx, driverResume, inline, domain.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, before, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestMatchService_ScoreJobByID(t *testing.T) {
	t.Parallel()
	jobs := &stubJobs{jobs: []domain.JobPosting{driverJob()}}
	svc := newMatchService(jobs, nil)
	ctx := context.Background()

	m, err := svc.ScoreJobByID(ctx, driverResume, "job-1", domain.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, "job-1", m.JobID)

	_, err = svc.ScoreJobByID(ctx, driverResume, "missing", domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
