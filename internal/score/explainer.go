package score

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// Explainer assembles the human-readable side of a match result: the overall
// summary, strength and weakness bullets, and the hiring recommendation.
// The summary is an oracle call with a template fallback; everything else is
// a fixed rule table over the score breakdown.
type Explainer struct {
	Oracle *Gateway
}

// BuildMatch assembles the complete result for one (resume, job) scoring run.
func (e *Explainer) BuildMatch(ctx domain.Context, job domain.JobPosting, breakdown domain.ScoreBreakdown) domain.DetailedMatch {
	strengths := Strengths(breakdown)
	weaknesses := Weaknesses(breakdown)
	total := breakdown.TotalScore()

	return domain.DetailedMatch{
		JobID:              job.ID,
		JobTitle:           job.Title,
		Company:            job.Company,
		MatchScore:         Round2(total),
		ScoreBreakdown:     breakdown,
		OverallExplanation: e.overallExplanation(ctx, job.Title, breakdown),
		Strengths:          strengths,
		Weaknesses:         weaknesses,
		Recommendation:     Recommendation(total),
		Salary:             job.Salary,
		Location:           job.Location,
	}
}

func (e *Explainer) overallExplanation(ctx domain.Context, jobTitle string, b domain.ScoreBreakdown) string {
	if !e.Oracle.Available() {
		return fallbackExplanation(b)
	}
	resp, err := e.Oracle.Complete(ctx, overallSummaryPrompt(jobTitle, scoreSummary(b)), 512)
	if err != nil {
		slog.Warn("overall-explanation generation failed, using template", slog.Any("error", err))
		return fallbackExplanation(b)
	}
	return strings.TrimSpace(resp)
}

// scoreSummary flattens the breakdown into the textual form the summary
// prompt embeds.
func scoreSummary(b domain.ScoreBreakdown) string {
	det, sem, bonus := b.Deterministic, b.Semantic, b.Bonus
	return fmt.Sprintf(`TOTAL SCORE: %.1f/100

BREAKDOWN:
1. Deterministic Score: %.1f/40
   - Skills Matching: %.1f/15
   - Experience Years: %.1f/10
   - Education Match: %.1f/5
   - Salary Fit: %.1f/5
   - Location Match: %.1f/5

2. Semantic Score: %.1f/40
   - Soft Skills: %.1f/15
   - Culture Fit: %.1f/10
   - Growth Potential: %.1f/10
   - Project Relevance: %.1f/5

3. Bonus Score: %.1f/20
   - Industry Experience: %.1f/10
   - Rare Skills: %.1f/5
   - Career Trajectory: %.1f/5`,
		b.TotalScore(),
		det.Total(), det.SkillsMatching.Score, det.ExperienceYears.Score,
		det.EducationMatch.Score, det.SalaryFit.Score, det.LocationMatch.Score,
		sem.Total(), sem.SoftSkillsMatch.Score, sem.CultureFit.Score,
		sem.GrowthPotential.Score, sem.ProjectRelevance.Score,
		bonus.Total(), bonus.IndustryExperience.Score, bonus.RareSkillsPremium.Score,
		bonus.CareerTrajectory.Score)
}

// fallbackExplanation is the deterministic summary used when the oracle
// cannot produce one: a quality tier plus the two best and two worst
// dimensions by fill ratio.
func fallbackExplanation(b domain.ScoreBreakdown) string {
	total := b.TotalScore()
	quality := "Weak"
	switch {
	case total >= 80:
		quality = "Excellent"
	case total >= 65:
		quality = "Good"
	case total >= 50:
		quality = "Moderate"
	}

	type dim struct {
		name  string
		ratio float64
	}
	dims := []dim{
		{"skills", b.Deterministic.SkillsMatching.Ratio()},
		{"experience", b.Deterministic.ExperienceYears.Ratio()},
		{"soft skills", b.Semantic.SoftSkillsMatch.Ratio()},
		{"culture fit", b.Semantic.CultureFit.Ratio()},
		{"rare skills", b.Bonus.RareSkillsPremium.Ratio()},
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].ratio > dims[j].ratio })

	top := []string{dims[0].name, dims[1].name}
	bottom := []string{dims[len(dims)-2].name, dims[len(dims)-1].name}

	return fmt.Sprintf("%s candidate with %.0f/100. Strong %s. Could improve %s.",
		quality, total, strings.Join(top, " and "), strings.Join(bottom, " and "))
}

// Strengths lists what the candidate does well, one bullet per dimension
// that clears its threshold, at most five, in fixed dimension order.
func Strengths(b domain.ScoreBreakdown) []string {
	det, sem, bonus := b.Deterministic, b.Semantic, b.Bonus
	var out []string

	if det.SkillsMatching.Score >= 12 {
		matched := metadataLen(det.SkillsMatching.Metadata, "matched_skills")
		out = append(out, fmt.Sprintf("Strong technical skills with %d+ matched competencies", matched))
	}
	if det.ExperienceYears.Score >= 8 {
		years := metadataInt(det.ExperienceYears.Metadata, "resume_years")
		out = append(out, fmt.Sprintf("Excellent experience level (%d+ years)", years))
	}
	if det.EducationMatch.Score >= 4 {
		out = append(out, "Strong educational background")
	}
	if det.SalaryFit.Score >= 4 {
		out = append(out, "Salary expectations well-aligned")
	}
	if det.LocationMatch.Score >= 4 {
		out = append(out, "Excellent location fit")
	}
	if sem.SoftSkillsMatch.Score >= 12 {
		out = append(out, "Outstanding soft skills and communication")
	}
	if sem.CultureFit.Score >= 8 {
		out = append(out, "Excellent cultural alignment")
	}
	if sem.GrowthPotential.Score >= 8 {
		out = append(out, "High growth potential and adaptability")
	}
	if sem.ProjectRelevance.Score >= 4 {
		out = append(out, "Highly relevant project experience")
	}
	if bonus.IndustryExperience.Score >= 7 {
		out = append(out, "Strong industry-specific experience")
	}
	if bonus.RareSkillsPremium.Score >= 4 {
		out = append(out, "Rare and highly valuable technical skills")
	}
	if bonus.CareerTrajectory.Score >= 4 {
		out = append(out, "Coherent and progressive career path")
	}

	if len(out) > 5 {
		out = out[:5]
	}
	if len(out) == 0 {
		out = []string{"Meets basic requirements"}
	}
	return out
}

// Weaknesses lists the main gaps, one bullet per dimension below its
// threshold, at most four, in fixed dimension order.
func Weaknesses(b domain.ScoreBreakdown) []string {
	det, sem, bonus := b.Deterministic, b.Semantic, b.Bonus
	var out []string

	if det.SkillsMatching.Score < 10 {
		if missing := metadataLen(det.SkillsMatching.Metadata, "missing_skills"); missing > 0 {
			out = append(out, fmt.Sprintf("Missing %d key technical skills", missing))
		}
	}
	if det.ExperienceYears.Score < 5 {
		required := metadataInt(det.ExperienceYears.Metadata, "required_years")
		out = append(out, fmt.Sprintf("Experience level below requirement (%d years needed)", required))
	}
	if det.EducationMatch.Score < 3 {
		out = append(out, "Education level could be higher")
	}
	if det.SalaryFit.Score < 3 {
		out = append(out, "Salary expectations may not align")
	}
	if det.LocationMatch.Score < 3 {
		out = append(out, "Location not optimal")
	}
	if sem.SoftSkillsMatch.Score < 10 {
		out = append(out, "Soft skills need development")
	}
	if sem.CultureFit.Score < 6 {
		out = append(out, "Cultural fit uncertain")
	}
	if sem.GrowthPotential.Score < 6 {
		out = append(out, "Growth potential unclear")
	}
	if sem.ProjectRelevance.Score < 3 {
		out = append(out, "Limited relevant project experience")
	}
	if bonus.IndustryExperience.Score < 5 {
		out = append(out, "Limited industry-specific experience")
	}
	if bonus.RareSkillsPremium.Score < 2 {
		out = append(out, "Few rare or specialized skills")
	}
	if bonus.CareerTrajectory.Score < 3 {
		out = append(out, "Career progression unclear")
	}

	if len(out) > 4 {
		out = out[:4]
	}
	if len(out) == 0 {
		out = []string{"No significant weaknesses identified"}
	}
	return out
}

// Recommendation maps the composite score to a hiring recommendation band.
func Recommendation(total float64) string {
	switch {
	case total >= 85:
		return "Strongly recommended - Excellent candidate, proceed to interview immediately"
	case total >= 75:
		return "Recommended - Strong candidate, proceed to interview"
	case total >= 65:
		return "Consider for interview - Good candidate with minor gaps"
	case total >= 50:
		return "Moderate fit - Review carefully before proceeding"
	default:
		return "Not recommended - Significant gaps in requirements"
	}
}

func metadataLen(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	if list, ok := m[key].([]string); ok {
		return len(list)
	}
	if list, ok := m[key].([]any); ok {
		return len(list)
	}
	return 0
}

func metadataInt(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
