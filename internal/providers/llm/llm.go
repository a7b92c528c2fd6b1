package llm

import "context"

type Provider interface {
	// Answer returns the model's full completion for a prompt.
	Answer(ctx context.Context, prompt string) (string, error)
	Close() error
}
