package llm

import "context"

// Provider interface for chat and image backends
type Provider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	GetProviderName() string
}
