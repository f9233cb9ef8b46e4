package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-derived application settings.
type Config struct {
	Port        string
	DatabaseURL string

	// FullPermission is a process-wide override: when true, every
	// tier-gated check behaves as the pro tier regardless of the
	// subscription stored on the user.
	FullPermission bool

	FreeSessionLimit     int // sessions per billing period on the free tier
	FreeParticipantLimit int // distinct card authors per session on the free tier
}

// Load reads .env and environment variables into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		FullPermission:       os.Getenv("FULL_PERMISSION") == "true",
		FreeSessionLimit:     getEnvInt("FREE_SESSION_LIMIT", 1),
		FreeParticipantLimit: getEnvInt("FREE_PARTICIPANT_LIMIT", 5),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[FATAL] %s must be an integer, got %q", key, v)
	}
	return n
}
