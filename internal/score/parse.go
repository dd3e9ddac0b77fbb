package score

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRe is the salvage pattern: the first floating-point-looking token
// anywhere in a malformed oracle response.
var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// ParseScored parses an oracle response in the
//
//	SCORE: <number>
//	EXPLANATION: <text>
//
// grammar into a clamped score and explanation. The fallback chain is
// structured parse, then numeric-token salvage, then zero. "8.5/10" style
// values are handled by splitting on "/". When the EXPLANATION line is
// missing, the whole raw response serves as explanation. The returned score
// is always within [0, max].
func ParseScored(response string, max float64) (float64, string) {
	var (
		score      float64
		scoreFound bool
		expl       string
	)

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		switch {
		case !scoreFound && strings.HasPrefix(line, "SCORE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))
			raw = strings.TrimSpace(strings.SplitN(raw, "/", 2)[0])
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				score = v
				scoreFound = true
			}
		case expl == "" && strings.HasPrefix(line, "EXPLANATION:"):
			expl = strings.TrimSpace(strings.TrimPrefix(line, "EXPLANATION:"))
		}
	}

	if !scoreFound {
		// Salvage: first number anywhere in the response.
		if tok := numberRe.FindString(response); tok != "" {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				score = v
			}
		}
	}

	if expl == "" {
		expl = strings.TrimSpace(response)
	}

	return clamp(score, 0, max), expl
}

// ParseKeyedInt extracts "<key>: <n>" from a response, clamped to [min, max].
// The fraction part of a decimal value is truncated. The second return
// reports whether the key line parsed.
func ParseKeyedInt(response, key string, min, max int) (int, bool) {
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		if !strings.HasPrefix(line, key+":") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, key+":"))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		n := int(v)
		if n < min {
			n = min
		}
		if n > max {
			n = max
		}
		return n, true
	}
	return 0, false
}

// ParseKeyedLine returns the remainder of the first "<key>: ..." line.
func ParseKeyedLine(response, key string) (string, bool) {
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		if strings.HasPrefix(line, key+":") {
			return strings.TrimSpace(strings.TrimPrefix(line, key+":")), true
		}
	}
	return "", false
}

// ParseMatchedList parses "MATCHED: [a, b, c]" responses from the soft-skill
// evaluation prompt into a list of skill names. "MATCHED: []" yields nil.
func ParseMatchedList(response string) []string {
	raw, ok := ParseKeyedLine(response, "MATCHED")
	if !ok {
		return nil
	}
	raw = strings.Trim(raw, "[]")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
