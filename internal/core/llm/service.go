package llm

import (
	"context"
	"log"
)

// Service wraps the LLM provider for dependency injection
type Service struct {
	provider Provider
}

// NewService creates LLM service backed by OpenAI
func NewService(apiKey, model string) *Service {
	if apiKey == "" {
		log.Fatal("❌ OPENAI_API_KEY is required")
	}

	provider := NewOpenAIProvider(apiKey, model, 0, 0)

	log.Printf("🤖 Using LLM provider: %s (model: %s)", provider.GetProviderName(), provider.model)

	return &Service{provider: provider}
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

// GenerateResponse generates AI response
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

// GenerateImage generates an image and returns its URL
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return s.provider.GenerateImage(ctx, prompt)
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
