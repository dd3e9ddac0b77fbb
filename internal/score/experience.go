package score

import (
	"regexp"
	"strconv"
	"strings"
)

// Date-range pattern families recognised in resume text. Closed ranges cover
// "2015-2024", "2015 – 2024", "2015 à 2024", "2015 to 2024"; open-ended
// ranges cover "Depuis 2015", "Since 2015", "2015 à aujourd'hui",
// "2015 to present".
var (
	closedRangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4})\s*[-–—]\s*(\d{4})`),
		regexp.MustCompile(`(?i)(\d{4})\s+(?:à|a|to)\s+(\d{4})`),
	}
	ongoingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:depuis|since)\s+(\d{4})`),
		regexp.MustCompile(`(?i)(\d{4})\s+(?:à|a|to)\s+(?:aujourd'?hui|present|now|maintenant)`),
	}
	looseYearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|ans?)\s+(?:of\s+)?(?:experience|expérience)`),
		regexp.MustCompile(`(?i)(?:experience|expérience)\s*:?\s*(\d+)\+?\s*(?:years?|ans?)`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|ans?)\s+(?:in|dans|en)\b`),
	}
	requiredYearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|ans?)\s+(?:of\s+)?(?:experience|expérience)`),
		regexp.MustCompile(`(?i)minimum\s+(?:of\s+)?(\d+)\s*(?:years?|ans?)`),
		regexp.MustCompile(`(?i)at least\s+(\d+)\s*(?:years?|ans?)`),
	}
)

// ExtractYears sums the lengths of all date ranges found in text, using
// referenceYear as "now". Closed ranges are validated
// (1950 <= start <= referenceYear, start <= end <= referenceYear+1); each
// open-ended range contributes referenceYear-start unless a closed range
// already starts at the same year. Overlapping and duplicate spans are NOT
// merged: every matched span adds its full length, so a resume that mentions
// the same period twice double-counts it. Returns 0 when nothing matches.
func ExtractYears(text string, referenceYear int) int {
	total := 0
	startsSeen := make(map[int]struct{})

	for _, re := range closedRangePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			if start < 1950 || start > referenceYear || end < start || end > referenceYear+1 {
				continue
			}
			total += end - start
			startsSeen[start] = struct{}{}
		}
	}

	for _, re := range ongoingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			start, _ := strconv.Atoi(m[1])
			if start < 1950 || start > referenceYear {
				continue
			}
			if _, dup := startsSeen[start]; dup {
				continue
			}
			total += referenceYear - start
			startsSeen[start] = struct{}{}
		}
	}

	return total
}

// ExtractYearsLoose falls back to keyword phrases like "8 years of
// experience" when no date ranges are present, taking the largest claim.
func ExtractYearsLoose(text string) int {
	years := 0
	lower := strings.ToLower(text)
	for _, re := range looseYearsPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > years {
				years = n
			}
		}
	}
	return years
}

// RequiredYears extracts the experience requirement from a job description.
// When no explicit figure is stated, it infers 5 for senior/lead postings,
// 1 for junior/graduate postings, and 3 otherwise.
func RequiredYears(jobDescription string) int {
	lower := strings.ToLower(jobDescription)
	required := 0
	for _, re := range requiredYearsPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > required {
				required = n
			}
		}
	}
	if required > 0 {
		return required
	}
	switch {
	case strings.Contains(lower, "senior") || strings.Contains(lower, "lead"):
		return 5
	case strings.Contains(lower, "junior") || strings.Contains(lower, "graduate"):
		return 1
	default:
		return 3
	}
}
