package score

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// DeterministicScorer computes the rule-based score group: skills,
// experience, education, salary and location. The oracle is optional; when
// absent, soft-skill and experience-relevance judgments fall back to
// deterministic text matching.
type DeterministicScorer struct {
	Oracle *Gateway
	// ReferenceYear overrides "now" for date-range extraction. Zero means
	// the current year.
	ReferenceYear int
}

func (s *DeterministicScorer) referenceYear() int {
	if s.ReferenceYear != 0 {
		return s.ReferenceYear
	}
	return time.Now().Year()
}

// Score computes all five deterministic dimensions.
func (s *DeterministicScorer) Score(ctx domain.Context, resumeText string, job domain.JobPosting, cand domain.CandidateProfile) domain.DeterministicScore {
	return domain.DeterministicScore{
		SkillsMatching:  s.scoreSkills(ctx, resumeText, job),
		ExperienceYears: s.scoreExperience(ctx, resumeText, job),
		EducationMatch:  s.scoreEducation(resumeText, job),
		SalaryFit:       s.scoreSalary(job.Salary, cand.SalaryExpectation),
		LocationMatch:   s.scoreLocation(job.Location, cand.Location),
	}
}

// scoreSkills scores required-skill coverage on 15 points. Requirements are
// split into hard skills (text matching) and soft skills (oracle judgment
// with a text-matching fallback); technical vocabulary found in the job
// description joins the hard set. Extra technical skills in the resume earn
// up to 2 bonus points inside the 15-point cap.
func (s *DeterministicScorer) scoreSkills(ctx domain.Context, resumeText string, job domain.JobPosting) domain.ScoreDetail {
	var hardReqs, softSkills []string
	for _, req := range job.Requirements {
		if IsSoftSkill(req) {
			softSkills = append(softSkills, req)
		} else {
			hardReqs = append(hardReqs, req)
		}
	}

	hardSet := make(map[string]struct{})
	for _, req := range hardReqs {
		hardSet[strings.ToLower(strings.TrimSpace(req))] = struct{}{}
	}
	for _, skill := range TechSkillsIn(job.Description) {
		hardSet[skill] = struct{}{}
	}
	if len(hardSet) == 0 && len(softSkills) == 0 {
		for _, skill := range []string{"programming", "development", "engineering"} {
			hardSet[skill] = struct{}{}
		}
	}
	hardSkills := make([]string, 0, len(hardSet))
	for skill := range hardSet {
		hardSkills = append(hardSkills, skill)
	}
	sort.Strings(hardSkills)

	var matched, missing []string
	for _, skill := range hardSkills {
		if MatchSkill(skill, resumeText) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	hardMatched := len(matched)

	softMatched := 0
	if len(softSkills) > 0 {
		judged, err := s.Oracle.EvaluateSoftSkills(ctx, resumeText, softSkills, job.Description)
		if err != nil {
			slog.Warn("soft-skill evaluation unavailable, matching text directly", slog.Any("error", err))
			for _, skill := range softSkills {
				if MatchSkill(skill, resumeText) {
					matched = append(matched, skill)
				} else {
					missing = append(missing, skill)
				}
			}
		} else {
			judgedSet := make(map[string]struct{}, len(judged))
			for _, skill := range judged {
				judgedSet[strings.ToLower(skill)] = struct{}{}
			}
			for _, skill := range softSkills {
				if _, ok := judgedSet[strings.ToLower(skill)]; ok {
					matched = append(matched, skill)
				} else {
					missing = append(missing, skill)
				}
			}
		}
		softMatched = len(matched) - hardMatched
	}

	totalRequired := len(hardSkills) + len(softSkills)
	totalMatched := len(matched)

	var score, ratio float64
	if totalRequired > 0 {
		ratio = float64(totalMatched) / float64(totalRequired)
		score = ratio * 15

		var bonusSkills []string
		for _, skill := range TechSkillsIn(resumeText) {
			if _, required := hardSet[skill]; !required {
				bonusSkills = append(bonusSkills, skill)
			}
		}
		score = math.Min(15, score+math.Min(2, float64(len(bonusSkills))*0.2))
	} else {
		score = 10.0
		ratio = 0.67
	}

	explanation := fmt.Sprintf("%d/%d required skills matched", totalMatched, totalRequired)
	if len(matched) > 0 {
		explanation += ". Matched: " + formatList(matched, 5)
	}
	if len(missing) > 0 {
		explanation += ". Missing: " + formatList(missing, 3)
	}

	return domain.NewScoreDetail(score, 15, explanation, map[string]any{
		"matched_skills":       truncList(matched, 10),
		"missing_skills":       truncList(missing, 10),
		"match_ratio":          Round2(ratio),
		"hard_skills_matched":  hardMatched,
		"soft_skills_matched":  softMatched,
		"semantic_soft_skills": s.Oracle.Available() && len(softSkills) > 0,
	})
}

// scoreExperience scores years of experience on 10 points. With the oracle
// and a job title available it counts only years relevant to the target job;
// otherwise it sums date ranges, then keyword claims. More experience than
// required degrades gently; each missing year costs two points.
func (s *DeterministicScorer) scoreExperience(ctx domain.Context, resumeText string, job domain.JobPosting) domain.ScoreDetail {
	ref := s.referenceYear()

	var resumeYears int
	var explanation string
	usingOracle := s.Oracle.Available() && job.Title != ""
	if usingOracle {
		resumeYears, explanation = s.Oracle.RelevantYears(ctx, resumeText, job.Title, job.Description, ref)
	} else {
		resumeYears = ExtractYears(resumeText, ref)
		if resumeYears == 0 {
			resumeYears = ExtractYearsLoose(resumeText)
		}
	}

	requiredYears := RequiredYears(job.Description)

	var score float64
	var base string
	switch {
	case resumeYears >= requiredYears && resumeYears <= requiredYears+5:
		score = 10.0
		base = fmt.Sprintf("%d years of relevant experience, excellent fit", resumeYears)
	case resumeYears >= requiredYears && resumeYears <= requiredYears+10:
		score = 9.0
		base = fmt.Sprintf("%d years of relevant experience, highly experienced", resumeYears)
	case resumeYears >= requiredYears && resumeYears <= requiredYears+15:
		score = 8.0
		base = fmt.Sprintf("%d years of relevant experience, very senior", resumeYears)
	case resumeYears >= requiredYears:
		score = 7.0
		base = fmt.Sprintf("%d years of relevant experience, profile well beyond requirements", resumeYears)
	default:
		gap := requiredYears - resumeYears
		score = math.Max(0, 10-float64(gap)*2)
		base = fmt.Sprintf("%d years of relevant experience, %d required", resumeYears, requiredYears)
	}
	if explanation == "" {
		explanation = base
	}

	return domain.NewScoreDetail(score, 10, explanation, map[string]any{
		"resume_years":        resumeYears,
		"required_years":      requiredYears,
		"semantic_evaluation": usingOracle,
	})
}

// educationLevels maps degree keywords to a comparable rank.
var educationLevels = map[string]int{
	"phd":       5,
	"doctorate": 5,
	"doctorat":  5,
	"master":    4,
	"msc":       4,
	"mba":       4,
	"bachelor":  3,
	"licence":   3,
	"degree":    3,
	"diploma":   2,
	"diplôme":   2,
}

// scoreEducation scores degree-level fit on 5 points. Detection is a
// substring scan of both texts; a requirement only counts when the posting
// also says required/requis/minimum, and defaults to bachelor level.
func (s *DeterministicScorer) scoreEducation(resumeText string, job domain.JobPosting) domain.ScoreDetail {
	resumeLower := strings.ToLower(resumeText)
	jobText := strings.ToLower(job.Description + " " + strings.Join(job.Requirements, " "))

	candidateLevel, candidateDegree := 0, "Unspecified"
	for degree, level := range educationLevels {
		if strings.Contains(resumeLower, degree) && level > candidateLevel {
			candidateLevel = level
			candidateDegree = capitalize(degree)
		}
	}

	requiredLevel, requiredDegree := 0, "Unspecified"
	explicit := strings.Contains(jobText, "required") || strings.Contains(jobText, "requis") ||
		strings.Contains(jobText, "minimum")
	if explicit {
		for degree, level := range educationLevels {
			if strings.Contains(jobText, degree) && level > requiredLevel {
				requiredLevel = level
				requiredDegree = capitalize(degree)
			}
		}
	}
	if requiredLevel == 0 {
		requiredLevel = 3
		requiredDegree = "Bachelor (default)"
	}

	var score float64
	var explanation string
	switch {
	case candidateLevel >= requiredLevel:
		score = 5.0
		explanation = fmt.Sprintf("%s meets the expected level (%s)", candidateDegree, requiredDegree)
	case candidateLevel >= requiredLevel-1:
		score = 3.0
		explanation = fmt.Sprintf("%s slightly below %s", candidateDegree, requiredDegree)
	default:
		score = 1.0
		explanation = fmt.Sprintf("%s below %s", candidateDegree, requiredDegree)
	}

	return domain.NewScoreDetail(score, 5, explanation, map[string]any{
		"candidate_level": candidateLevel,
		"required_level":  requiredLevel,
	})
}

// scoreSalary scores offer-vs-expectation fit on 5 points. An absent
// expectation is assumed acceptable.
func (s *DeterministicScorer) scoreSalary(jobSalary, expectation int) domain.ScoreDetail {
	if expectation == 0 {
		return domain.NewScoreDetail(5, 5, "No salary expectation stated, assumed acceptable",
			map[string]any{"job_salary": jobSalary})
	}

	diffPercent := float64(jobSalary-expectation) / float64(expectation) * 100

	var score float64
	var explanation string
	switch {
	case diffPercent >= 10:
		score = 5.0
		explanation = fmt.Sprintf("Offer above expectations (+%.0f%%)", diffPercent)
	case diffPercent >= 0:
		score = 5.0
		explanation = fmt.Sprintf("Offer meets expectations (±%.0f%%)", math.Abs(diffPercent))
	case diffPercent >= -10:
		score = 4.0
		explanation = fmt.Sprintf("Offer slightly below expectations (%.0f%%)", diffPercent)
	case diffPercent >= -20:
		score = 2.0
		explanation = fmt.Sprintf("Offer below expectations (%.0f%%)", diffPercent)
	default:
		score = 0.0
		explanation = fmt.Sprintf("Offer far below expectations (%.0f%%)", diffPercent)
	}

	return domain.NewScoreDetail(score, 5, explanation, map[string]any{
		"job_salary":            jobSalary,
		"candidate_expectation": expectation,
		"diff_percent":          Round2(diffPercent),
	})
}

// knownRegions anchors a coarse same-region comparison when neither location
// string contains the other.
var knownRegions = []string{"france", "paris", "lyon", "marseille", "toulouse", "bordeaux"}

// scoreLocation scores location compatibility on 5 points. Remote postings
// always fit; a remote-only candidate against an on-site posting barely does.
func (s *DeterministicScorer) scoreLocation(jobLocation, candidateLocation string) domain.ScoreDetail {
	meta := map[string]any{"job_location": jobLocation, "candidate_location": candidateLocation}
	if candidateLocation == "" {
		meta["candidate_location"] = "Unspecified"
		return domain.NewScoreDetail(3, 5, "No location preference stated", meta)
	}

	jobLower := strings.ToLower(jobLocation)
	candLower := strings.ToLower(candidateLocation)

	var score float64
	var explanation string
	switch {
	case strings.Contains(jobLower, "remote") || strings.Contains(jobLower, "télétravail"):
		score = 5.0
		explanation = "Remote position, location flexible"
	case strings.Contains(candLower, "remote"):
		score = 1.0
		explanation = "Candidate wants remote, position is on site"
	case strings.Contains(jobLower, candLower) || strings.Contains(candLower, jobLower):
		score = 5.0
		explanation = "Locations align"
	default:
		var jobRegion, candRegion string
		for _, region := range knownRegions {
			if strings.Contains(jobLower, region) {
				jobRegion = region
			}
			if strings.Contains(candLower, region) {
				candRegion = region
			}
		}
		if jobRegion != "" && jobRegion == candRegion {
			score = 3.0
			explanation = "Same region, different city"
		} else {
			score = 1.0
			explanation = "Different locations"
		}
	}

	return domain.NewScoreDetail(score, 5, explanation, meta)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func truncList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
