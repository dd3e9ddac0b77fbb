// Package score implements the hybrid explainable matching engine: the
// rule-based deterministic scorers, the oracle-delegated semantic and bonus
// scorers, and the aggregation/explanation layer that combines them into a
// 0-100 DetailedMatch.
package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// stopWords are articles/conjunctions ignored when matching requirement
// tokens, in English and French.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"de": {}, "des": {}, "et": {}, "ou": {}, "à": {},
}

// licenseCodeRe extracts a trailing certification code like "C" or "CE"
// from requirements such as "Permis C".
var licenseCodeRe = regexp.MustCompile(`\b([A-Z]+\d*)\b`)

// MatchSkill reports whether a requirement phrase is satisfied by the given
// free text. It is pure and deterministic: no oracle involvement. The checks
// run in order and the first hit wins:
//
//  1. case-insensitive substring match of the whole requirement;
//  2. every non-stop-word token of the requirement appears in the text;
//  3. license/certification codes matched standalone or inside
//     comma/slash-delimited lists ("Permis C" vs "Permis B, C, CE");
//  4. acronym normalization ("CI/CD" vs "CI - CD").
func MatchSkill(requirement, text string) bool {
	reqLower := strings.ToLower(requirement)
	textLower := strings.ToLower(text)

	if strings.Contains(textLower, reqLower) {
		return true
	}

	if matchAllTokens(reqLower, textLower) {
		return true
	}

	if matchLicenseCode(requirement, text) {
		return true
	}

	// Acronym variants: strip separators from both sides.
	reqCompact := textx.NormalizeCompact(reqLower)
	if len(reqCompact) > 0 && len(reqCompact) <= 10 &&
		strings.Contains(textx.NormalizeCompact(textLower), reqCompact) {
		return true
	}

	return false
}

func matchAllTokens(reqLower, textLower string) bool {
	matched := false
	for _, tok := range textx.Tokenize(reqLower) {
		if _, skip := stopWords[tok]; skip {
			continue
		}
		if !strings.Contains(textLower, tok) {
			return false
		}
		matched = true
	}
	return matched
}

// matchLicenseCode handles requirements like "Permis C" against resumes
// listing "Permis B, C, CE" or "FIMO / FCO".
func matchLicenseCode(requirement, text string) bool {
	reqLower := strings.ToLower(requirement)
	if !strings.Contains(reqLower, "permis") && !strings.Contains(reqLower, "license") {
		return false
	}
	m := licenseCodeRe.FindStringSubmatch(requirement)
	if m == nil {
		return false
	}
	code := regexp.QuoteMeta(m[1])
	patterns := []string{
		`(?i)\b` + code + `\b`,   // standalone
		`(?i),\s*` + code + `\b`, // in a comma-separated list
		`(?i)\b` + code + `\s*,`, // head of a comma-separated list
		`(?i)/\s*` + code + `\b`, // in a slash-separated list
	}
	for _, p := range patterns {
		if regexp.MustCompile(p).MatchString(text) {
			return true
		}
	}
	return false
}

// softSkillKeywords flags requirements that describe qualities rather than
// verifiable hard skills, in English and French.
var softSkillKeywords = []string{
	"ponctualite", "ponctualité", "punctuality",
	"autonomie", "autonomous", "autonomy",
	"leadership", "lead", "communication", "communicat",
	"esprit", "equipe", "équipe", "team", "teamwork", "collaboration",
	"rigueur", "rigor", "rigorous", "organisation", "organiz",
	"adaptabilite", "adaptabilité", "adaptability", "flexible", "flexibility",
	"proactivite", "proactivité", "proactive", "motivation", "motivated",
	"relationnel", "interpersonal", "creativity", "creative",
	"problem solving", "critical thinking", "initiative",
}

// IsSoftSkill reports whether a requirement looks like a soft skill.
func IsSoftSkill(requirement string) bool {
	reqLower := strings.ToLower(requirement)
	for _, kw := range softSkillKeywords {
		if strings.Contains(reqLower, kw) {
			return true
		}
	}
	return false
}

// techVocabulary is the fixed technical vocabulary scanned for in job
// descriptions and resumes.
var techVocabulary = []string{
	"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
	"react", "vue", "angular", "node.js", "django", "flask", "fastapi",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"docker", "kubernetes", "aws", "gcp", "azure", "terraform",
	"git", "ci/cd", "jenkins", "github actions", "gitlab",
	"machine learning", "deep learning", "nlp", "computer vision",
	"data science", "data engineering", "etl", "spark", "hadoop",
	"agile", "scrum", "rest api", "graphql", "microservices",
}

// TechSkillsIn returns the technical-vocabulary entries found in text
// (lowercase substring scan), in vocabulary order.
func TechSkillsIn(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, skill := range techVocabulary {
		if strings.Contains(lower, skill) {
			out = append(out, skill)
		}
	}
	return out
}

// formatList joins up to n items for explanations.
func formatList(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

// Round2 rounds v to two decimals for explanations and serialized output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
