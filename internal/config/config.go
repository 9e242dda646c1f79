package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort     string
	DatabaseDSN  string
	JWTSecret    string
	CORSOrigins  string
	UploadPath   string // directory receipt files are stored in
	GeminiAPIKey string
	GeminiModel  string
}

func Load() *Config {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=paisable port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:   getEnv("UPLOAD_PATH", "./uploads"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=paisable port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value; set your own Postgres connection for production")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value; set your own domain for production")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set; receipt extraction will fall back to defaults")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
