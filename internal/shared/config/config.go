package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	JWTSecret      string
	GoogleClientID string

	OpenAIKey   string
	OpenAIModel string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string

	// Checkout price IDs for the credit packages, keyed by total credits
	// granted (base + bonus). Kept in sync with the Stripe dashboard.
	StripePriceID1000   string
	StripePriceID5050   string
	StripePriceID11000  string
	StripePriceID23000  string
	StripePriceID62500  string
	StripePriceID140000 string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        os.Getenv("PORT"),
		Env:         os.Getenv("ENV"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:     os.Getenv("STRIPE_CANCEL_URL"),

		StripePriceID1000:   os.Getenv("STRIPE_PRICE_ID_1000"),
		StripePriceID5050:   os.Getenv("STRIPE_PRICE_ID_5050"),
		StripePriceID11000:  os.Getenv("STRIPE_PRICE_ID_11000"),
		StripePriceID23000:  os.Getenv("STRIPE_PRICE_ID_23000"),
		StripePriceID62500:  os.Getenv("STRIPE_PRICE_ID_62500"),
		StripePriceID140000: os.Getenv("STRIPE_PRICE_ID_140000"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}
