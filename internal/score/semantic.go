package score

import "github.com/fairyhunter13/ai-job-matcher/internal/domain"

// SemanticScorer computes the oracle-judged score group: soft skills,
// culture fit, growth potential and project relevance. Every dimension is an
// independent oracle call; a failed call yields a zero-score detail carrying
// the error text, it never aborts the other dimensions.
type SemanticScorer struct {
	Oracle *Gateway
	// CompanyCulture optionally enriches the culture-fit rubric.
	CompanyCulture string
}

// Score computes all four semantic dimensions.
func (s *SemanticScorer) Score(ctx domain.Context, resumeText string, job domain.JobPosting) domain.SemanticScore {
	return domain.SemanticScore{
		SoftSkillsMatch:  s.dimension(ctx, softSkillsMatchPrompt(resumeText, job.Description, job.Title), 15),
		CultureFit:       s.dimension(ctx, cultureFitPrompt(resumeText, job.Description, s.CompanyCulture), 10),
		GrowthPotential:  s.dimension(ctx, growthPotentialPrompt(resumeText, job.Title), 10),
		ProjectRelevance: s.dimension(ctx, projectRelevancePrompt(resumeText, job.Description), 5),
	}
}

func (s *SemanticScorer) dimension(ctx domain.Context, prompt string, max float64) domain.ScoreDetail {
	score, expl, err := s.Oracle.ScoreDimension(ctx, prompt, max)
	if err != nil {
		return domain.NewScoreDetail(0, max, "error: "+err.Error(), nil)
	}
	return domain.NewScoreDetail(score, max, expl, nil)
}
