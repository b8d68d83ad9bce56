package llm

import "context"

// ChatRequest is a single-turn completion: one system persona, one user prompt.
type ChatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

type Provider interface {
	// Complete returns the model's full text reply.
	Complete(ctx context.Context, req ChatRequest) (string, error)
	Name() string
	Close() error
}
