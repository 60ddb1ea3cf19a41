package engine

import (
	"context"

	"sor/internal/adapters/ai"
)

// LLM is the completion surface the engine needs. *ai.Client satisfies it;
// tests substitute fakes.
type LLM interface {
	Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)
	CompleteJSON(ctx context.Context, req ai.ChatRequest, out interface{}) (*ai.ChatResponse, error)
}

var _ LLM = (*ai.Client)(nil)
