package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"sor/pkg/errors"
)

const defaultClaudeAPIURL = "https://api.anthropic.com/v1/messages"

// Ensure ClaudeProvider implements ChatProvider
var _ ChatProvider = (*ClaudeProvider)(nil)

// ClaudeProvider talks to the Anthropic Messages API.
type ClaudeProvider struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClaudeProvider creates a Claude provider.
func NewClaudeProvider(apiKey string, timeout time.Duration) *ClaudeProvider {
	return &ClaudeProvider{
		apiKey:  apiKey,
		baseURL: defaultClaudeAPIURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (p *ClaudeProvider) WithBaseURL(url string) *ClaudeProvider {
	p.baseURL = url
	return p
}

// Name returns the provider identifier.
func (p *ClaudeProvider) Name() ProviderName {
	return ProviderNameClaude
}

// Chat sends a chat completion request to the Claude API.
func (p *ClaudeProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if p.apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "claude API key not configured")
	}

	body, err := json.Marshal(p.convertToClaude(req))
	if err != nil {
		return nil, errors.Wrap(err, "marshal claude request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create HTTP request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send claude request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read claude response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		message := string(respBody)
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			message = errResp.Error.Type + ": " + errResp.Error.Message
		}
		return nil, &APIError{Provider: ProviderNameClaude, Status: resp.StatusCode, Message: message}
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(respBody, &claudeResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal claude response")
	}

	return p.convertFromClaude(&claudeResp)
}

// Claude API types
type claudeRequest struct {
	Model       string          `json:"model"`
	Messages    []claudeMessage `json:"messages"`
	System      string          `json:"system,omitempty"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type claudeResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Content    []claudeContent `json:"content"`
	Model      string          `json:"model"`
	StopReason string          `json:"stop_reason"`
	Usage      claudeUsage     `json:"usage"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// convertToClaude converts our request format to Claude's format.
func (p *ClaudeProvider) convertToClaude(req ChatRequest) claudeRequest {
	claudeReq := claudeRequest{
		Model:       req.Model,
		System:      req.System,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if claudeReq.MaxTokens == 0 {
		claudeReq.MaxTokens = 4096
	}
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			claudeReq.System = msg.Content
			continue
		}
		claudeReq.Messages = append(claudeReq.Messages, claudeMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return claudeReq
}

// convertFromClaude converts Claude's response to our format.
func (p *ClaudeProvider) convertFromClaude(resp *claudeResponse) (*ChatResponse, error) {
	var textParts []string
	for _, content := range resp.Content {
		if content.Type == "text" {
			textParts = append(textParts, content.Text)
		}
	}
	if len(textParts) == 0 {
		return nil, errors.Wrap(errors.ErrExternal, "claude response contains no text content")
	}

	return &ChatResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: strings.Join(textParts, "\n"),
		Usage: Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}
