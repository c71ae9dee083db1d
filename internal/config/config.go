package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Server ServerConfig
	TLS    TLSConfig
	AI     AIConfig
	Data   DataConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port string
}

// TLSConfig holds optional TLS settings.
type TLSConfig struct {
	Enabled    bool
	CertFile   string
	KeyFile    string
	MinVersion string
}

// AIConfig holds settings for the generative-AI collaborator.
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// Disabled short-circuits every AI request before any network call.
	Disabled bool
}

// DataConfig holds filesystem and database paths.
type DataConfig struct {
	Dir    string
	DBPath string
}

// LoadConfig reads configuration from the environment, loading a .env
// file first if one is present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		TLS: TLSConfig{
			Enabled:    getEnv("TLS_ENABLED", "false") == "true",
			CertFile:   getEnv("TLS_CERT_FILE", ""),
			KeyFile:    getEnv("TLS_KEY_FILE", ""),
			MinVersion: getEnv("TLS_MIN_VERSION", "1.2"),
		},
		AI: AIConfig{
			BaseURL:  getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:   getEnv("AI_API_KEY", ""),
			Model:    getEnv("AI_MODEL", "gemini-2.5-flash"),
			Disabled: getEnv("AI_DISABLED", "false") == "true",
		},
		Data: DataConfig{
			Dir:    getEnv("DATA_DIR", "./data"),
			DBPath: getEnv("DB_PATH", "./data/classroom.db"),
		},
	}
}

// getEnv returns the environment value for key, or fallback if unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
