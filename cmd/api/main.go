package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/goodwinhq/household-staff-be/internal/core/assistant"
	"github.com/goodwinhq/household-staff-be/internal/core/auth"
	"github.com/goodwinhq/household-staff-be/internal/core/billing"
	"github.com/goodwinhq/household-staff-be/internal/core/llm"
	"github.com/goodwinhq/household-staff-be/internal/handlers"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"github.com/goodwinhq/household-staff-be/internal/services"
	"github.com/goodwinhq/household-staff-be/internal/shared/config"
	"github.com/goodwinhq/household-staff-be/internal/shared/database"
	"github.com/goodwinhq/household-staff-be/internal/shared/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting household-staff-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	userRepo := repositories.NewUserRepo(db.GORM)
	creditRepo := repositories.NewCreditRepo(db.GORM)

	// Init auth
	authService := auth.NewService(userRepo, cfg.JWTSecret)
	googleService := auth.NewGoogleOAuthService(cfg.GoogleClientID)

	// Init LLM and assistant services
	llmService := llm.NewService(cfg.OpenAIKey, cfg.OpenAIModel)
	assistantService := assistant.NewService(llmService)

	// Init credit and usage services
	creditService := services.NewCreditService(creditRepo)
	usageService := services.NewUsageService(creditService)

	// Init billing
	catalog := billing.NewCatalog(cfg)
	checkoutService := billing.NewCheckoutService(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL, catalog)
	webhookService := services.NewStripeWebhookService(cfg.StripeWebhookSecret, catalog, userRepo, creditRepo)

	log.Printf("💳 Credit packages configured: %d", len(catalog.Packages()))

	// Init handlers
	authHandler := handlers.NewAuthHandler(authService, googleService)
	creditHandler := handlers.NewCreditHandler(creditService, usageService)
	billingHandler := handlers.NewBillingHandler(checkoutService, webhookService)
	assistantHandler := handlers.NewAssistantHandler(assistantService, usageService, creditService)
	healthHandler := handlers.NewHealthHandler(llmService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Household Staff API",
	})

	// Middleware
	app.Use(cors.New())

	requireAuth := auth.AuthMiddleware(authService)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Auth routes
	app.Post("/api/auth/register", authHandler.Register)
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/google", authHandler.GoogleLogin)
	app.Post("/api/auth/refresh", authHandler.Refresh)
	app.Post("/api/auth/logout", requireAuth, authHandler.Logout)

	// Credit routes
	app.Get("/api/user/credits", requireAuth, creditHandler.GetBalance)
	app.Get("/api/user/credit-history", requireAuth, creditHandler.GetHistory)
	app.Post("/api/credits/consume", requireAuth, creditHandler.Consume)

	// Billing routes
	app.Get("/api/stripe/packages", billingHandler.GetPackages)
	app.Post("/api/stripe/create-checkout-session", requireAuth, billingHandler.CreateCheckoutSession)
	app.Post("/api/stripe/webhook", billingHandler.StripeWebhook)

	// Assistant routes
	app.Post("/api/goodwin", requireAuth, assistantHandler.Goodwin)
	app.Post("/api/mechanic-assistant", requireAuth, assistantHandler.MechanicAssistant)
	app.Post("/api/image-generator", requireAuth, assistantHandler.ImageGenerator)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ household-staff-api running at :%s", port)
	log.Fatal(app.Listen(":" + port))
}
