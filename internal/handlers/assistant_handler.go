package handlers

import (
	"errors"
	"log"

	"github.com/goodwinhq/household-staff-be/internal/core/assistant"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"github.com/goodwinhq/household-staff-be/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AssistantHandler struct {
	assistantService *assistant.Service
	usageService     *services.UsageService
	creditService    *services.CreditService
}

func NewAssistantHandler(assistantService *assistant.Service, usageService *services.UsageService, creditService *services.CreditService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		usageService:     usageService,
		creditService:    creditService,
	}
}

// dispatchableOps are the operations the butler may route a message to. The
// Goodwin pre-check prices the dearest of them, since the servant is not
// known until after classification.
var dispatchableOps = []services.StaffOperation{
	{Servant: "goodwin", Operation: "base"},
	{Servant: "gearhart", Operation: "chat"},
	{Servant: "scrivner", Operation: "chat"},
	{Servant: "brightwell", Operation: "generate"},
}

type assistantRequest struct {
	Message string `json:"message"`
	Prompt  string `json:"prompt"`
}

func (r *assistantRequest) text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Prompt
}

// Goodwin routes a message through the butler, who may delegate to another
// servant. Credits are charged for the servant that actually handled it.
func (h *AssistantHandler) Goodwin(c *fiber.Ctx) error {
	userID, req, ok := h.parseRequest(c)
	if !ok {
		return nil
	}

	if ok, err := h.ensureDispatchCredits(c, userID); err != nil || !ok {
		return err
	}

	reply, err := h.assistantService.Dispatch(c.Context(), req.text())
	if err != nil {
		log.Printf("❌ Goodwin dispatch failed for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "assistant unavailable"})
	}

	return h.chargeAndRespond(c, userID, reply)
}

// MechanicAssistant talks straight to Gearhart
func (h *AssistantHandler) MechanicAssistant(c *fiber.Ctx) error {
	userID, req, ok := h.parseRequest(c)
	if !ok {
		return nil
	}

	if ok, err := h.ensureCredits(c, userID, "gearhart", "chat"); err != nil || !ok {
		return err
	}

	reply, err := h.assistantService.Chat(c.Context(), "gearhart", req.text())
	if err != nil {
		log.Printf("❌ Mechanic assistant failed for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "assistant unavailable"})
	}

	return h.chargeAndRespond(c, userID, reply)
}

// ImageGenerator asks Brightwell for an image
func (h *AssistantHandler) ImageGenerator(c *fiber.Ctx) error {
	userID, req, ok := h.parseRequest(c)
	if !ok {
		return nil
	}

	if ok, err := h.ensureCredits(c, userID, "brightwell", "generate"); err != nil || !ok {
		return err
	}

	reply, err := h.assistantService.GenerateImage(c.Context(), req.text())
	if err != nil {
		log.Printf("❌ Image generation failed for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "assistant unavailable"})
	}

	return h.chargeAndRespond(c, userID, reply)
}

// parseRequest extracts identity and message. A false return means the error
// response has already been written.
func (h *AssistantHandler) parseRequest(c *fiber.Ctx) (string, *assistantRequest, bool) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		_ = c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		return "", nil, false
	}

	var req assistantRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		return "", nil, false
	}
	if req.text() == "" {
		_ = c.Status(400).JSON(fiber.Map{"error": "message is required"})
		return "", nil, false
	}

	return userID, &req, true
}

// ensureCredits pre-checks affordability before the operation runs. The final
// charge happens after the operation, so the balance can still race between
// check and deduct; the deduct itself is what enforces the floor. A false
// return means the rejection has already been written.
func (h *AssistantHandler) ensureCredits(c *fiber.Ctx, userID, servant, operation string) (bool, error) {
	cost, err := h.usageService.OperationCost(services.StaffOperation{Servant: servant, Operation: operation})
	if err != nil {
		return false, c.Status(500).JSON(fiber.Map{"error": "failed to price operation"})
	}

	ok, err := h.creditService.HasEnoughCredits(userID, cost)
	if err != nil {
		log.Printf("❌ Failed to check credits for %s: %v", userID, err)
		return false, c.Status(500).JSON(fiber.Map{"error": "failed to check credits"})
	}
	if !ok {
		return false, c.Status(402).JSON(fiber.Map{
			"error":            "insufficient credits",
			"required_credits": cost,
		})
	}

	return true, nil
}

// ensureDispatchCredits pre-checks affordability for a message that has not
// been classified yet, using the most expensive operation the dispatcher can
// pick. The actual charge afterwards is the real servant's cost.
func (h *AssistantHandler) ensureDispatchCredits(c *fiber.Ctx, userID string) (bool, error) {
	maxCost := 0
	for _, op := range dispatchableOps {
		cost, err := h.usageService.OperationCost(op)
		if err != nil {
			return false, c.Status(500).JSON(fiber.Map{"error": "failed to price operation"})
		}
		if cost > maxCost {
			maxCost = cost
		}
	}

	ok, err := h.creditService.HasEnoughCredits(userID, maxCost)
	if err != nil {
		log.Printf("❌ Failed to check credits for %s: %v", userID, err)
		return false, c.Status(500).JSON(fiber.Map{"error": "failed to check credits"})
	}
	if !ok {
		return false, c.Status(402).JSON(fiber.Map{
			"error":            "insufficient credits",
			"required_credits": maxCost,
		})
	}

	return true, nil
}

func (h *AssistantHandler) chargeAndRespond(c *fiber.Ctx, userID string, reply *assistant.Reply) error {
	balance, err := h.usageService.RecordOperation(userID, services.StaffOperation{
		Servant:   reply.Servant,
		Operation: reply.Operation,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInsufficientCredits):
			return c.Status(402).JSON(fiber.Map{"error": "insufficient credits"})
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		default:
			log.Printf("❌ Failed to record usage for %s: %v", userID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to record usage"})
		}
	}

	return c.JSON(fiber.Map{
		"servant":           reply.Servant,
		"operation":         reply.Operation,
		"response":          reply.Response,
		"image_url":         reply.ImageURL,
		"remaining_credits": balance,
	})
}
