package config

import (
	"os"
	"strconv"

	"go.uber.org/zap"
)

type Config struct {
	Port          string
	DatabaseDSN   string
	Env           string
	AdminEmail    string // hardcoded-priority admin principal (first role probe)
	SessionSecret string
	JWTSecret     string
	CloudinaryURL string
	UploadFolder  string
	LogLevel      string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:docpanel.db?_fk=1")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@haserol.com.tr")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.SessionSecret)
	cfg.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
	cfg.UploadFolder = getEnv("UPLOAD_FOLDER", "docpanel")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			zap.L().Warn("invalid boolean env var", zap.String("key", key), zap.String("value", v))
			return def
		}
		return b
	}
	return def
}
