// Package domain holds the core entities, invariants and ports of the
// job matching engine. Everything in here is a plain immutable value:
// a scoring call constructs the entities once, callers serialize or
// cache them, nothing mutates them afterwards.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrInternal          = errors.New("internal error")
)

// Context is an alias so the domain does not import std context everywhere.
// Adapters and usecases pass context.Context through unchanged.
type Context = context.Context

// JobPosting is a stored job offer as produced by the offers collaborator.
type JobPosting struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Salary       int
	Industry     string
	Description  string
	Requirements []string
	CreatedAt    time.Time
}

// CandidateProfile carries the per-request candidate context. It replaces
// the ambient session dictionaries of earlier prototypes: the caller builds
// one per request and passes it down explicitly.
type CandidateProfile struct {
	Location          string
	SalaryExpectation int
	PreferredTitle    string
	Industry          string
}

// JobFilter narrows listing of job postings.
type JobFilter struct {
	Industry  string
	Location  string
	MinSalary int
	Limit     int
}

// ScoreDetail is one scored dimension with its explanation.
// Invariant: 0 <= Score <= MaxScore.
type ScoreDetail struct {
	Score       float64        `json:"score"`
	MaxScore    float64        `json:"max"`
	Explanation string         `json:"explanation"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewScoreDetail builds a ScoreDetail, clamping Score into [0, max] so the
// invariant holds on every construction path, including parser salvage.
func NewScoreDetail(score, max float64, explanation string, metadata map[string]any) ScoreDetail {
	if max < 0 {
		max = 0
	}
	if score < 0 {
		score = 0
	}
	if score > max {
		score = max
	}
	return ScoreDetail{Score: score, MaxScore: max, Explanation: explanation, Metadata: metadata}
}

// Ratio returns Score/MaxScore, or 0 for a zero MaxScore.
func (d ScoreDetail) Ratio() float64 {
	if d.MaxScore == 0 {
		return 0
	}
	return d.Score / d.MaxScore
}

// DeterministicScore groups the rule-based dimensions (40 points max).
type DeterministicScore struct {
	SkillsMatching  ScoreDetail
	ExperienceYears ScoreDetail
	EducationMatch  ScoreDetail
	SalaryFit       ScoreDetail
	LocationMatch   ScoreDetail
}

// MaxDeterministic is the cap of the deterministic group.
const MaxDeterministic = 40.0

// Total sums the deterministic dimensions; in [0, 40] by construction.
func (s DeterministicScore) Total() float64 {
	return s.SkillsMatching.Score + s.ExperienceYears.Score + s.EducationMatch.Score +
		s.SalaryFit.Score + s.LocationMatch.Score
}

// MarshalJSON renders the group as {total, max, details:{...}} so the API
// response exposes totals without callers re-summing dimensions.
func (s DeterministicScore) MarshalJSON() ([]byte, error) {
	return marshalGroup(s.Total(), MaxDeterministic, map[string]ScoreDetail{
		"skills_matching":  s.SkillsMatching,
		"experience_years": s.ExperienceYears,
		"education_match":  s.EducationMatch,
		"salary_fit":       s.SalaryFit,
		"location_match":   s.LocationMatch,
	})
}

// UnmarshalJSON restores the group from the {total, max, details:{...}}
// shape MarshalJSON emits, so cached matches round-trip losslessly.
func (s *DeterministicScore) UnmarshalJSON(data []byte) error {
	details, err := unmarshalGroup(data)
	if err != nil {
		return err
	}
	s.SkillsMatching = details["skills_matching"]
	s.ExperienceYears = details["experience_years"]
	s.EducationMatch = details["education_match"]
	s.SalaryFit = details["salary_fit"]
	s.LocationMatch = details["location_match"]
	return nil
}

// SemanticScore groups the oracle-judged qualitative dimensions (40 points max).
type SemanticScore struct {
	SoftSkillsMatch  ScoreDetail
	CultureFit       ScoreDetail
	GrowthPotential  ScoreDetail
	ProjectRelevance ScoreDetail
}

// MaxSemantic is the cap of the semantic group.
const MaxSemantic = 40.0

// Total sums the semantic dimensions; in [0, 40] by construction.
func (s SemanticScore) Total() float64 {
	return s.SoftSkillsMatch.Score + s.CultureFit.Score + s.GrowthPotential.Score +
		s.ProjectRelevance.Score
}

// MarshalJSON renders the group as {total, max, details:{...}}.
func (s SemanticScore) MarshalJSON() ([]byte, error) {
	return marshalGroup(s.Total(), MaxSemantic, map[string]ScoreDetail{
		"soft_skills_match": s.SoftSkillsMatch,
		"culture_fit":       s.CultureFit,
		"growth_potential":  s.GrowthPotential,
		"project_relevance": s.ProjectRelevance,
	})
}

// UnmarshalJSON restores the group from its marshalled shape.
func (s *SemanticScore) UnmarshalJSON(data []byte) error {
	details, err := unmarshalGroup(data)
	if err != nil {
		return err
	}
	s.SoftSkillsMatch = details["soft_skills_match"]
	s.CultureFit = details["culture_fit"]
	s.GrowthPotential = details["growth_potential"]
	s.ProjectRelevance = details["project_relevance"]
	return nil
}

// BonusScore groups the differentiating dimensions (20 points max).
type BonusScore struct {
	IndustryExperience ScoreDetail
	RareSkillsPremium  ScoreDetail
	CareerTrajectory   ScoreDetail
}

// MaxBonus is the cap of the bonus group.
const MaxBonus = 20.0

// Total sums the bonus dimensions; in [0, 20] by construction.
func (s BonusScore) Total() float64 {
	return s.IndustryExperience.Score + s.RareSkillsPremium.Score + s.CareerTrajectory.Score
}

// MarshalJSON renders the group as {total, max, details:{...}}.
func (s BonusScore) MarshalJSON() ([]byte, error) {
	return marshalGroup(s.Total(), MaxBonus, map[string]ScoreDetail{
		"industry_experience": s.IndustryExperience,
		"rare_skills_premium": s.RareSkillsPremium,
		"career_trajectory":   s.CareerTrajectory,
	})
}

// UnmarshalJSON restores the group from its marshalled shape.
func (s *BonusScore) UnmarshalJSON(data []byte) error {
	details, err := unmarshalGroup(data)
	if err != nil {
		return err
	}
	s.IndustryExperience = details["industry_experience"]
	s.RareSkillsPremium = details["rare_skills_premium"]
	s.CareerTrajectory = details["career_trajectory"]
	return nil
}

func marshalGroup(total, max float64, details map[string]ScoreDetail) ([]byte, error) {
	return json.Marshal(map[string]any{
		"total":   round2(total),
		"max":     max,
		"details": details,
	})
}

// unmarshalGroup reads the details map back out; total and max are derived
// fields and are recomputed from the dimensions, never trusted from the wire.
func unmarshalGroup(data []byte) (map[string]ScoreDetail, error) {
	var g struct {
		Details map[string]ScoreDetail `json:"details"`
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return g.Details, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ScoreBreakdown aggregates the three score groups.
type ScoreBreakdown struct {
	Deterministic DeterministicScore `json:"deterministic"`
	Semantic      SemanticScore      `json:"semantic"`
	Bonus         BonusScore         `json:"bonus"`
}

// TotalScore is the composite 0-100 score.
func (b ScoreBreakdown) TotalScore() float64 {
	return b.Deterministic.Total() + b.Semantic.Total() + b.Bonus.Total()
}

// DetailedMatch is the complete result for one (resume, job) scoring request.
// Constructed once, never mutated, safe to serialize and cache by value.
type DetailedMatch struct {
	JobID              string         `json:"job_id,omitempty"`
	JobTitle           string         `json:"job_title"`
	Company            string         `json:"company"`
	MatchScore         float64        `json:"match_score"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown"`
	OverallExplanation string         `json:"overall_explanation"`
	Strengths          []string       `json:"strengths"`
	Weaknesses         []string       `json:"weaknesses"`
	Recommendation     string         `json:"recommendation"`
	Salary             int            `json:"salary"`
	Location           string         `json:"location"`
}

// OracleClient is the single capability interface over the external
// text-generation oracle: one prompt in, free-form text out. Implementations
// may fail, time out, or return malformed text; callers own the fallbacks.
type OracleClient interface {
	Complete(ctx Context, prompt string, maxTokens int) (string, error)
}

// JobRepository persists and lists job postings.
type JobRepository interface {
	Create(ctx Context, p JobPosting) (string, error)
	Get(ctx Context, id string) (JobPosting, error)
	List(ctx Context, f JobFilter) ([]JobPosting, error)
	Count(ctx Context) (int, error)
}

// MatchCache memoizes DetailedMatch values by a (resume-hash, job-id) key.
type MatchCache interface {
	Get(ctx Context, key string) (DetailedMatch, bool, error)
	Set(ctx Context, key string, m DetailedMatch, ttl time.Duration) error
}
