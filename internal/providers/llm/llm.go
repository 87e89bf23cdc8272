package llm

import "context"

type Provider interface {
	// GenerateText returns the model's full textual response for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}
