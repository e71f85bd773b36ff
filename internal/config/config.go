package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging configuration
	LogFormat string // "json" or "pretty"
	LogLevel  string

	// Database configuration
	DatabaseURL string

	// Auth configuration
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModelID string

	// Storage configuration (Supabase S3-compatible endpoint)
	StorageEndpoint        string
	StorageAccessKeyID     string
	StorageAccessKeySecret string
	StorageBucket          string
	StorageRegion          string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 60)) * time.Second,

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		// Auth configuration
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTAccessExpiration:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRATION_MINUTES", 15)) * time.Minute,
		JWTRefreshExpiration: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_DAYS", 7)) * 24 * time.Hour,

		// Gemini configuration
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModelID: getEnvString("GEMINI_MODEL_ID", "gemini-2.0-flash"),

		// Storage configuration
		StorageEndpoint:        os.Getenv("SUPABASE_STORAGE_ENDPOINT"),
		StorageAccessKeyID:     os.Getenv("SUPABASE_ACCESS_KEY_ID"),
		StorageAccessKeySecret: os.Getenv("SUPABASE_ACCESS_KEY_SECRET"),
		StorageBucket:          getEnvString("SUPABASE_BUCKET", "receipts"),
		StorageRegion:          getEnvString("SUPABASE_REGION", "ap-southeast-1"),
	}

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// StorageConfigured reports whether the S3-compatible storage credentials are set
func (c *Config) StorageConfigured() bool {
	return c.StorageEndpoint != "" && c.StorageAccessKeyID != "" && c.StorageAccessKeySecret != ""
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.GeminiAPIKey == "" {
		log.Println("Warning: No Gemini API key provided. Receipt scanning and chat will fail.")
	}

	if config.DatabaseURL == "" {
		log.Println("Warning: No database URL provided. The server will fail to start.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT secret provided. Authentication will fail.")
	}

	if !config.StorageConfigured() {
		log.Println("Warning: Storage is not configured. Receipt images will not be uploaded.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
