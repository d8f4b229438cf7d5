package handlers

import (
	"log"
	"strings"

	"github.com/goodwinhq/household-staff-be/internal/core/auth"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService   *auth.Service
	googleService *auth.GoogleOAuthService
}

func NewAuthHandler(authService *auth.Service, googleService *auth.GoogleOAuthService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
	}
}

// Register creates a new account with email and password
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email and password are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "password must be at least 8 characters"})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			return c.Status(409).JSON(fiber.Map{"error": "email already registered"})
		}
		log.Printf("❌ Failed to register user: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to register"})
	}

	return c.Status(201).JSON(resp)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email and password are required"})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}

	return c.JSON(resp)
}

// GoogleLogin authenticates with a Google ID token
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req auth.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.GoogleIDToken == "" {
		return c.Status(400).JSON(fiber.Map{"error": "google_id_token is required"})
	}

	info, err := h.googleService.VerifyIDToken(c.Context(), req.GoogleIDToken)
	if err != nil {
		log.Printf("❌ Google token verification failed: %v", err)
		return c.Status(401).JSON(fiber.Map{"error": "invalid Google token"})
	}

	resp, err := h.authService.LoginWithGoogle(info)
	if err != nil {
		log.Printf("❌ Google login failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to login"})
	}

	return c.JSON(resp)
}

// Refresh exchanges a refresh token for new tokens
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req auth.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.RefreshToken == "" {
		return c.Status(400).JSON(fiber.Map{"error": "refresh_token is required"})
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid or expired refresh token"})
	}

	return c.JSON(resp)
}

// Logout revokes the current user's refresh token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := h.authService.Logout(userID); err != nil {
		log.Printf("❌ Failed to logout user %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to logout"})
	}

	return c.JSON(fiber.Map{"message": "logged out"})
}
