package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sor/internal/metrics"
	"sor/pkg/errors"
	"sor/pkg/logger"
)

// APIError is a non-2xx response from a provider API.
type APIError struct {
	Provider ProviderName
	Status   int
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.Status, e.Message)
}

// Unwrap marks provider failures as external.
func (e *APIError) Unwrap() error {
	return errors.ErrExternal
}

// ParseError is a structured completion whose body could not be decoded. Raw
// holds an excerpt of the model output for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

const parseErrorExcerptLimit = 500

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v (raw: %s)", e.Err, e.Raw)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Client wraps the provider registry with rate limiting and retry. Overloaded
// and transport-level failures are retried with exponential backoff; every
// other failure surfaces immediately.
type Client struct {
	registry    *Registry
	limiter     RateLimiter
	maxRetries  int
	backoffBase time.Duration
	log         *logger.Logger
}

// NewClient creates an invocation client.
func NewClient(registry *Registry, limiter RateLimiter, maxRetries int, backoffBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	return &Client{
		registry:    registry,
		limiter:     limiter,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		log:         logger.Get().With("component", "ai_client"),
	}
}

// Complete runs a chat completion against the provider serving req.Model.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	provider, err := c.registry.ForModel(req.Model)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase * time.Duration(1<<(attempt-1))
			c.log.Warnw("Retrying model request",
				"provider", provider.Name(), "model", req.Model,
				"attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "retry wait cancelled")
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := provider.Chat(ctx, req)
		elapsed := time.Since(start)
		if err == nil {
			metrics.RecordLLMRequest(string(provider.Name()), req.Model, "ok", elapsed.Seconds())
			metrics.RecordLLMTokens(string(provider.Name()), req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
			return resp, nil
		}

		metrics.RecordLLMRequest(string(provider.Name()), req.Model, "error", elapsed.Seconds())
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, errors.Wrapf(lastErr, "model request failed after %d attempts", c.maxRetries)
}

// CompleteJSON runs a completion and decodes the response body into out.
// Markdown code fences around the payload are stripped before decoding.
func (c *Client) CompleteJSON(ctx context.Context, req ChatRequest, out interface{}) (*ChatResponse, error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	payload := StripCodeFences(resp.Content)
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return resp, &ParseError{Raw: excerpt(resp.Content, parseErrorExcerptLimit), Err: err}
	}
	return resp, nil
}

// isRetryable reports whether a failed attempt is worth repeating. Only rate
// limit responses, provider overload and transport errors qualify.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 429 || apiErr.Status == 529
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from a model response.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[\"") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
