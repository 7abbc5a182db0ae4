package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv loads variables from a .env file when present. Missing files are
// fine in deployed environments where everything comes from the real env.
func LoadEnv() {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Amadeus base URLs per environment.
const (
	amadeusTestURL = "https://test.api.amadeus.com"
	amadeusProdURL = "https://api.amadeus.com"
)

// Config carries every external credential and feature flag the service
// needs. It is assembled once at startup and handed to the pieces that use
// it instead of having them read the environment on their own.
type Config struct {
	Port string

	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusBaseURL      string

	GooglePlacesAPIKey string
	GeminiAPIKey       string
	GeminiModel        string

	CacheEnabled bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	JWTSecret string
}

// New builds a Config from the environment.
func New() *Config {
	LoadEnv()

	baseURL := amadeusTestURL
	if os.Getenv("AMADEUS_ENV") == "production" {
		baseURL = amadeusProdURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Config{
		Port:                port,
		AmadeusClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		AmadeusBaseURL:      baseURL,
		GooglePlacesAPIKey:  os.Getenv("GOOGLE_PLACES_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         model,
		CacheEnabled:        os.Getenv("AMADEUS_CACHE_ENABLED") != "false",
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            os.Getenv("SMTP_PORT"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		FromEmail:           os.Getenv("FROM_EMAIL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
	}
}
