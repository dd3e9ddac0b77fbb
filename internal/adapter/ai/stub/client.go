// Package stub provides a fast, deterministic oracle for local development
// and tests. Selected via ORACLE_PROVIDER=stub; no network, no API key.
package stub

import (
	"strings"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// Client implements domain.OracleClient with canned mid-range answers.
type Client struct{}

// New constructs a stub oracle client.
func New() *Client { return &Client{} }

// Complete inspects the prompt shape and returns a plausible response in the
// grammar the scorers expect.
func (c *Client) Complete(_ domain.Context, prompt string, _ int) (string, error) {
	switch {
	case strings.Contains(prompt, "MATCHED:"):
		return "MATCHED: []", nil
	case strings.Contains(prompt, "RELEVANT_YEARS:"):
		return "RELEVANT_YEARS: 5\nEXPLANATION: Stubbed estimate of directly relevant experience.", nil
	case strings.Contains(prompt, "from 0 to 15"):
		return "SCORE: 11\nEXPLANATION: Stubbed soft skills assessment.", nil
	case strings.Contains(prompt, "from 0 to 10"):
		return "SCORE: 7\nEXPLANATION: Stubbed assessment.", nil
	case strings.Contains(prompt, "from 0 to 5"):
		return "SCORE: 3\nEXPLANATION: Stubbed assessment.", nil
	default:
		return "The candidate shows a reasonable overall fit for the role based on the available profile.", nil
	}
}
