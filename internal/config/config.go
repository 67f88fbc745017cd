package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// LLM gateway settings
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	// Token lifetime defaults to 30 days, matching what the frontend expects
	// between forced re-logins.
	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "720")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 720h. Error: %v", tokenExpStr, err)
		tokenExpHours = 720
	}

	// LLM gateway: default to a local LM Studio endpoint for development.
	llmBaseURL := getEnv("LLM_API_URL", "http://127.0.0.1:1234/v1")
	llmAPIKey := getEnv("LLM_API_KEY", "")
	llmModel := getEnv("LLM_MODEL", "gemma-3-4b-it-qat")

	llmTimeoutStr := getEnv("LLM_TIMEOUT_MS", "30000")
	llmTimeoutMs, err := strconv.Atoi(llmTimeoutStr)
	if err != nil {
		log.Printf("Warning: Invalid LLM_TIMEOUT_MS '%s', using default 30000. Error: %v", llmTimeoutStr, err)
		llmTimeoutMs = 30000
	}

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		LLMBaseURL:      llmBaseURL,
		LLMAPIKey:       llmAPIKey,
		LLMModel:        llmModel,
		LLMTimeout:      time.Duration(llmTimeoutMs) * time.Millisecond,
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, LLM=%s (model %s, timeout %s)",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
