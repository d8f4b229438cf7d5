package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/goodwinhq/household-staff-be/internal/core/llm"
	"github.com/goodwinhq/household-staff-be/internal/shared/utils"
)

const classifierPrompt = `You are a router for a household staff of AI servants.
Given a user message, reply with exactly one word, the name of the servant
best suited to handle it:

- goodwin: general questions, conversation, anything not covered below
- gearhart: vehicles, engines, repairs, maintenance, mechanical problems
- brightwell: requests to create, draw, or generate images or artwork
- scrivner: writing, editing, summarizing, or rewording text

Reply with only the servant name, lowercase, nothing else.`

// Reply is the outcome of a servant handling a request.
type Reply struct {
	Servant   string `json:"servant"`
	Operation string `json:"operation"`
	Response  string `json:"response,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Service routes user messages to servants. A single classification call
// picks the servant, then the servant's persona drives the real completion.
type Service struct {
	llm *llm.Service
}

// NewService creates the assistant service
func NewService(llmService *llm.Service) *Service {
	return &Service{llm: llmService}
}

// Dispatch classifies the message and hands it to the chosen servant.
func (s *Service) Dispatch(ctx context.Context, message string) (*Reply, error) {
	name, err := s.classify(ctx, message)
	if err != nil {
		return nil, err
	}

	servant, err := GetServant(name)
	if err != nil {
		servant, _ = GetServant("goodwin")
	}

	switch servant.Name {
	case "brightwell":
		return s.GenerateImage(ctx, message)
	default:
		return s.Chat(ctx, servant.Name, message)
	}
}

// Chat runs a chat completion as the named servant.
func (s *Service) Chat(ctx context.Context, servantName, message string) (*Reply, error) {
	servant, err := GetServant(servantName)
	if err != nil {
		return nil, err
	}
	if !servant.HasCapability("chat") && !servant.HasCapability("general") {
		return nil, fmt.Errorf("servant %s cannot chat", servant.Name)
	}

	// The butler's conversational work is priced as his base operation, not
	// as a specialist chat.
	operation := "chat"
	if !servant.HasCapability("chat") {
		operation = "base"
	}

	response, err := s.llm.GenerateResponse(ctx, servant.SystemPrompt, message)
	if err != nil {
		return nil, fmt.Errorf("servant %s failed: %w", servant.Name, err)
	}

	return &Reply{
		Servant:   servant.Name,
		Operation: operation,
		Response:  response,
	}, nil
}

// GenerateImage runs image generation through brightwell.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (*Reply, error) {
	servant, _ := GetServant("brightwell")

	url, err := s.llm.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("servant %s failed: %w", servant.Name, err)
	}

	return &Reply{
		Servant:   servant.Name,
		Operation: "generate",
		ImageURL:  url,
	}, nil
}

func (s *Service) classify(ctx context.Context, message string) (string, error) {
	name, err := s.llm.GenerateResponse(ctx, classifierPrompt, message)
	if err != nil {
		return "", fmt.Errorf("classification failed: %w", err)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if _, err := GetServant(name); err != nil {
		utils.LogWarn("classifier returned unknown servant, falling back to goodwin", map[string]interface{}{
			"got": name,
		})
		return "goodwin", nil
	}

	return name, nil
}
