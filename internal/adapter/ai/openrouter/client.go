// Package openrouter implements the text-generation oracle backed by the
// OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

var errRateLimited = errors.New("rate limited: 429")

// Client implements domain.OracleClient over OpenRouter's OpenAI-compatible
// chat completions endpoint.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	counter *tokencount.Counter
}

// New constructs an OpenRouter client using the configured request timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.OracleTimeout},
		counter: tokencount.NewCounter(),
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.OracleBackoff()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// Complete sends prompt as a single user message and returns the raw
// completion text. Prompts over the token budget are clipped before sending.
// Rate limits and 5xx responses are retried with exponential backoff; other
// client errors fail fast.
func (c *Client) Complete(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		slog.Error("OpenRouter API key missing", slog.String("provider", "openrouter"))
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}

	model := c.cfg.ChatModel
	if c.cfg.PromptTokenBudget > 0 {
		prompt = c.counter.Truncate(prompt, model, c.cfg.PromptTokenBudget)
	}

	body := map[string]any{
		"model":       model,
		"temperature": 0.2,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	b, _ := json.Marshal(body)

	endpoint := c.cfg.OpenRouterBaseURL + "/chat/completions"
	var out struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies.
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		if err != nil {
			observability.ObserveOracleRequest("openrouter", "transport_error", time.Since(start))
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			observability.ObserveOracleRequest("openrouter", "transport_error", time.Since(start))
			slog.Error("failed to read response body", slog.String("provider", "openrouter"), slog.Any("error", err))
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			observability.ObserveOracleRequest("openrouter", "rate_limited", time.Since(start))
			slog.Warn("oracle rate limited",
				slog.String("provider", "openrouter"),
				slog.Int("status", resp.StatusCode),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return errRateLimited
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ObserveOracleRequest("openrouter", "client_error", time.Since(start))
			slog.Warn("oracle 4xx",
				slog.String("provider", "openrouter"),
				slog.Int("status", resp.StatusCode),
				slog.String("model", model),
				slog.String("endpoint", endpoint),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ObserveOracleRequest("openrouter", "server_error", time.Since(start))
			slog.Error("oracle non-2xx",
				slog.String("provider", "openrouter"),
				slog.Int("status", resp.StatusCode),
				slog.String("model", model),
				slog.String("endpoint", endpoint),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			observability.ObserveOracleRequest("openrouter", "decode_error", time.Since(start))
			slog.Error("oracle decode error",
				slog.String("provider", "openrouter"),
				slog.String("model", model),
				slog.Any("error", err))
			return err
		}
		observability.ObserveOracleRequest("openrouter", "ok", time.Since(start))
		return nil
	}

	bo := backoff.WithContext(c.backoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("oracle call failed after retries",
			slog.String("provider", "openrouter"),
			slog.String("model", model),
			slog.Any("error", err))
		switch {
		case errors.Is(err, errRateLimited):
			return "", fmt.Errorf("%w: openrouter", domain.ErrUpstreamRateLimit)
		case errors.Is(err, context.DeadlineExceeded):
			return "", fmt.Errorf("%w: openrouter", domain.ErrUpstreamTimeout)
		default:
			return "", fmt.Errorf("openrouter api failed: %w", err)
		}
	}

	if len(out.Choices) == 0 {
		slog.Error("oracle returned empty choices", slog.String("provider", "openrouter"))
		return "", errors.New("empty choices from OpenRouter API")
	}

	if out.Model != "" && out.Model != model {
		slog.Warn("model substitution detected",
			slog.String("requested_model", model),
			slog.String("actual_model", out.Model),
			slog.String("provider", "openrouter"))
	}
	return out.Choices[0].Message.Content, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
