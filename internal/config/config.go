package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT verification; tokens are issued elsewhere.
	JWTSecret string

	// Shared key required on /metrics; empty disables the endpoint.
	MetricsAPIKey string

	// Ledger
	LockTimeout         time.Duration
	OperatingAccount    string
	DisbursementAccount string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "treasury"),
		DBPassword: getEnv("DB_PASSWORD", "treasury"),
		DBName:     getEnv("DB_NAME", "treasury"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "treasury.db"),

		JWTSecret:     getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		MetricsAPIKey: os.Getenv("METRICS_API_KEY"),

		OperatingAccount:    getEnv("OPERATING_ACCOUNT", "Vault"),
		DisbursementAccount: getEnv("DISBURSEMENT_ACCOUNT", "Peal"),
	}

	timeoutStr := getEnv("LOCK_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		log.Printf("Warning: invalid LOCK_TIMEOUT value '%s', falling back to 5s\n", timeoutStr)
		timeout = 5 * time.Second
	}
	config.LockTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
