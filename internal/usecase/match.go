// Package usecase contains application business logic services.
package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// MatchService runs the full scoring pipeline for one (resume, job) pair:
// deterministic, semantic and bonus groups, then the explainer. Results for
// stored postings are memoized in the match cache.
type MatchService struct {
	Jobs          domain.JobRepository
	Cache         domain.MatchCache
	Deterministic *score.DeterministicScorer
	Semantic      *score.SemanticScorer
	Bonus         *score.BonusScorer
	Explainer     *score.Explainer
	CacheTTL      time.Duration
}

// NewMatchService constructs a MatchService with its dependencies.
func NewMatchService(jobs domain.JobRepository, cache domain.MatchCache, det *score.DeterministicScorer, sem *score.SemanticScorer, bonus *score.BonusScorer, expl *score.Explainer, ttl time.Duration) MatchService {
	return MatchService{Jobs: jobs, Cache: cache, Deterministic: det, Semantic: sem, Bonus: bonus, Explainer: expl, CacheTTL: ttl}
}

// ScoreAgainstJob scores resumeText against one job record. Inline jobs
// (empty ID) bypass the cache.
func (s MatchService) ScoreAgainstJob(ctx domain.Context, resumeText string, job domain.JobPosting, cand domain.CandidateProfile) (domain.DetailedMatch, error) {
	if resumeText == "" {
		return domain.DetailedMatch{}, fmt.Errorf("score: %w: resume text required", domain.ErrInvalidArgument)
	}
	if job.Title == "" {
		return domain.DetailedMatch{}, fmt.Errorf("score: %w: job title required", domain.ErrInvalidArgument)
	}
	resumeText = textx.SanitizeText(resumeText)

	key := matchKey(resumeText, job.ID)
	if s.Cache != nil && job.ID != "" {
		if m, ok, err := s.Cache.Get(ctx, key); err != nil {
			slog.Warn("match cache read failed", slog.Any("error", err))
		} else if ok {
			return m, nil
		}
	}

	breakdown := domain.ScoreBreakdown{
		Deterministic: s.Deterministic.Score(ctx, resumeText, job, cand),
		Semantic:      s.Semantic.Score(ctx, resumeText, job),
		Bonus:         s.Bonus.Score(ctx, resumeText, job),
	}
	match := s.Explainer.BuildMatch(ctx, job, breakdown)

	if s.Cache != nil && job.ID != "" {
		if err := s.Cache.Set(ctx, key, match, s.CacheTTL); err != nil {
			slog.Warn("match cache write failed", slog.Any("error", err))
		}
	}
	return match, nil
}

// ScoreJobByID loads a stored posting and scores resumeText against it.
func (s MatchService) ScoreJobByID(ctx domain.Context, resumeText, jobID string, cand domain.CandidateProfile) (domain.DetailedMatch, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.DetailedMatch{}, fmt.Errorf("score: load job: %w", err)
	}
	return s.ScoreAgainstJob(ctx, resumeText, job, cand)
}

// matchKey derives the cache key for a (resume, job) pair. The resume is
// hashed so the key stays bounded regardless of resume size.
func matchKey(resumeText, jobID string) string {
	h := sha256.Sum256([]byte(resumeText))
	return "match:" + hex.EncodeToString(h[:]) + ":" + jobID
}
