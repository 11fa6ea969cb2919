package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GmailRedirectURI   string
	FrontendURL        string
	ImportCooldown     time.Duration
	StateTokenExpiry   time.Duration
	FetchTimeout       time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	importCooldown := 30 * time.Second
	if exp := os.Getenv("IMPORT_COOLDOWN"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			importCooldown = parsed
		}
	}

	fetchTimeout := 30 * time.Second
	if exp := os.Getenv("GMAIL_FETCH_TIMEOUT"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			fetchTimeout = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=finwell port=5432 sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GmailRedirectURI:   getEnv("GMAIL_REDIRECT_URI", "http://localhost:8080/api/gmail/auth/callback"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		ImportCooldown:     importCooldown,
		StateTokenExpiry:   10 * time.Minute,
		FetchTimeout:       fetchTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
