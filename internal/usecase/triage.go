package usecase

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

const (
	// quickScoreThreshold is the triage cut: postings scoring below it are
	// not deep-scored.
	quickScoreThreshold = 45.0
	// defaultTopN bounds how many postings get the full oracle pipeline.
	defaultTopN = 3
	// defaultCandidateLimit caps the listing fed into the quick pass.
	defaultCandidateLimit = 20
)

// TriageService ranks a resume against stored postings in two phases: a
// cheap heuristic pre-score over the whole candidate set, then the full
// scoring pipeline on the few that survive. Deep scoring runs on a bounded
// worker pool since each match is independent and oracle-bound.
type TriageService struct {
	Jobs  domain.JobRepository
	Match MatchService
	// TopN is how many postings survive triage; zero means the default.
	TopN int
	// Concurrency bounds parallel deep-scoring workers; zero means serial.
	Concurrency int
}

// NewTriageService constructs a TriageService.
func NewTriageService(jobs domain.JobRepository, match MatchService, topN, concurrency int) TriageService {
	return TriageService{Jobs: jobs, Match: match, TopN: topN, Concurrency: concurrency}
}

// RankResult is the outcome of one ranking request. Without resume text no
// scoring happens and Jobs carries the plain filtered listing instead.
type RankResult struct {
	Matches []domain.DetailedMatch
	Jobs    []domain.JobPosting
}

// Rank lists postings matching the filter and returns the deep-scored top-N.
// When the quick filter rejects everything, an arbitrary top-N slice of the
// unfiltered set is deep-scored instead, so a coarse pre-score cannot hide
// every candidate.
func (s TriageService) Rank(ctx domain.Context, resumeText string, filter domain.JobFilter, cand domain.CandidateProfile) (RankResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultCandidateLimit
	}
	jobs, err := s.Jobs.List(ctx, filter)
	if err != nil {
		return RankResult{}, fmt.Errorf("rank: list jobs: %w", err)
	}

	if resumeText == "" {
		return RankResult{Jobs: jobs}, nil
	}

	type scored struct {
		job   domain.JobPosting
		quick float64
	}
	var retained []scored
	for _, job := range jobs {
		if q := QuickScore(resumeText, job); q >= quickScoreThreshold {
			retained = append(retained, scored{job: job, quick: q})
		}
	}
	sort.SliceStable(retained, func(i, j int) bool { return retained[i].quick > retained[j].quick })

	topN := s.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if len(retained) > topN {
		retained = retained[:topN]
	}
	if len(retained) == 0 {
		for _, job := range jobs {
			if len(retained) == topN {
				break
			}
			retained = append(retained, scored{job: job})
		}
	}
	if len(retained) == 0 {
		return RankResult{}, nil
	}

	matches := make([]domain.DetailedMatch, len(retained))
	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 1 {
		g.SetLimit(s.Concurrency)
	} else {
		g.SetLimit(1)
	}
	for i, sc := range retained {
		i, job := i, sc.job
		g.Go(func() error {
			m, err := s.Match.ScoreAgainstJob(gctx, resumeText, job, cand)
			if err != nil {
				return fmt.Errorf("rank: score %q: %w", job.ID, err)
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RankResult{}, err
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })
	return RankResult{Matches: matches}, nil
}

// QuickScore is the triage heuristic: a 50-point base, up to 30 points for
// the share of requirements found verbatim in the resume, and up to 20
// points for word overlap with the description. Capped at 100.
func QuickScore(resumeText string, job domain.JobPosting) float64 {
	resumeLower := strings.ToLower(resumeText)
	total := 50.0

	if len(job.Requirements) > 0 {
		matched := 0
		for _, req := range job.Requirements {
			if strings.Contains(resumeLower, strings.ToLower(req)) {
				matched++
			}
		}
		total += float64(matched) / float64(len(job.Requirements)) * 30
	}

	descWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(job.Description)) {
		descWords[w] = struct{}{}
	}
	common := 0
	for _, w := range strings.Fields(resumeLower) {
		if _, ok := descWords[w]; ok {
			common++
			delete(descWords, w)
		}
	}
	if common > 0 {
		total += min(20, float64(common)*0.5)
	}

	return min(100, total)
}
