package handlers

import (
	"github.com/goodwinhq/household-staff-be/internal/core/llm"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	llmService *llm.Service
}

func NewHealthHandler(llmService *llm.Service) *HealthHandler {
	return &HealthHandler{llmService: llmService}
}

// GetHealth reports liveness
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "household-staff-api",
		"provider": h.llmService.GetProviderName(),
	})
}
