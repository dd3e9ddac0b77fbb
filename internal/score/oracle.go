package score

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// defaultMaxTokens bounds the oracle completion length for dimension scoring.
const defaultMaxTokens = 1024

// Gateway wraps the oracle client with the SCORE:/EXPLANATION: grammar and
// an optional ceiling on concurrent oracle calls. A nil Gateway (or a
// Gateway around a nil client) means the oracle is unavailable and callers
// must use their deterministic fallbacks.
type Gateway struct {
	client   domain.OracleClient
	inflight *semaphore.Weighted
}

// NewGateway builds a Gateway. maxInflight <= 0 disables the concurrency
// ceiling; values above zero bound concurrent oracle round-trips across all
// goroutines sharing this Gateway (upstream rate-limit protection).
func NewGateway(client domain.OracleClient, maxInflight int) *Gateway {
	g := &Gateway{client: client}
	if maxInflight > 0 {
		g.inflight = semaphore.NewWeighted(int64(maxInflight))
	}
	return g
}

// Available reports whether oracle-backed scoring can be attempted.
func (g *Gateway) Available() bool { return g != nil && g.client != nil }

// Complete sends one prompt to the oracle, honouring the in-flight ceiling.
func (g *Gateway) Complete(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("complete: %w", domain.ErrOracleUnavailable)
	}
	if g.inflight != nil {
		if err := g.inflight.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("complete: acquire slot: %w", err)
		}
		defer g.inflight.Release(1)
	}
	tracer := otel.Tracer("score.oracle")
	ctx, span := tracer.Start(ctx, "oracle.Complete")
	defer span.End()
	return g.client.Complete(ctx, prompt, maxTokens)
}

// ScoreDimension sends a rubric prompt and parses the response into a
// clamped score and explanation. Oracle transport errors propagate so the
// calling scorer can substitute its zero-score detail; malformed responses
// degrade through the parser salvage chain instead.
func (g *Gateway) ScoreDimension(ctx domain.Context, prompt string, max float64) (float64, string, error) {
	resp, err := g.Complete(ctx, prompt, defaultMaxTokens)
	if err != nil {
		return 0, "", err
	}
	score, expl := ParseScored(resp, max)
	return score, expl, nil
}

// RelevantYears asks the oracle how many years of the candidate's experience
// are directly applicable to the target job, clamped to [0, 50]. On oracle
// failure or an unparseable response it falls back to date-range extraction
// over the full resume, with an explanation noting the fallback.
func (g *Gateway) RelevantYears(ctx domain.Context, resumeText, jobTitle, jobDescription string, referenceYear int) (int, string) {
	if !g.Available() {
		total := ExtractYears(resumeText, referenceYear)
		return total, fmt.Sprintf("Total experience: %d years (relevance evaluation unavailable)", total)
	}

	prompt := relevantYearsPrompt(resumeText, jobTitle, jobDescription)
	resp, err := g.Complete(ctx, prompt, 512)
	if err != nil {
		slog.Warn("relevant-experience evaluation failed, using date extraction", slog.Any("error", err))
		total := ExtractYears(resumeText, referenceYear)
		return total, fmt.Sprintf("Fallback due to error: %d years total experience", total)
	}

	years, ok := ParseKeyedInt(resp, "RELEVANT_YEARS", 0, 50)
	expl, _ := ParseKeyedLine(resp, "EXPLANATION")
	if !ok && expl == "" {
		slog.Warn("could not parse relevant-experience response", slog.String("snippet", snippet(resp, 120)))
		total := ExtractYears(resumeText, referenceYear)
		return total, fmt.Sprintf("Fallback: %d years total experience", total)
	}
	if expl == "" {
		expl = fmt.Sprintf("%d relevant years for %s", years, jobTitle)
	}
	return years, expl
}

// EvaluateSoftSkills asks the oracle which of the listed soft skills the
// resume demonstrates. Errors propagate so the caller can fall back to
// deterministic matching.
func (g *Gateway) EvaluateSoftSkills(ctx domain.Context, resumeText string, softSkills []string, jobDescription string) ([]string, error) {
	if !g.Available() {
		return nil, fmt.Errorf("soft skills: %w", domain.ErrOracleUnavailable)
	}
	if len(softSkills) == 0 {
		return nil, nil
	}
	resp, err := g.Complete(ctx, softSkillsPrompt(resumeText, softSkills, jobDescription), 256)
	if err != nil {
		return nil, err
	}
	return ParseMatchedList(resp), nil
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
