package score

import "github.com/fairyhunter13/ai-job-matcher/internal/domain"

// BonusScorer computes the differentiating score group: industry experience,
// rare skills and career trajectory. Like the semantic group each dimension
// is one oracle call, degrading to a zero-score detail on failure.
type BonusScorer struct {
	Oracle *Gateway
}

// Score computes all three bonus dimensions.
func (s *BonusScorer) Score(ctx domain.Context, resumeText string, job domain.JobPosting) domain.BonusScore {
	return domain.BonusScore{
		IndustryExperience: s.dimension(ctx, industryExperiencePrompt(resumeText, job.Description, job.Industry), 10),
		RareSkillsPremium:  s.dimension(ctx, rareSkillsPrompt(resumeText, job.Description, job.Title), 5),
		CareerTrajectory:   s.dimension(ctx, careerTrajectoryPrompt(resumeText, job.Title), 5),
	}
}

func (s *BonusScorer) dimension(ctx domain.Context, prompt string, max float64) domain.ScoreDetail {
	score, expl, err := s.Oracle.ScoreDimension(ctx, prompt, max)
	if err != nil {
		return domain.NewScoreDetail(0, max, "error: "+err.Error(), nil)
	}
	return domain.NewScoreDetail(score, max, expl, nil)
}
