package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	// DatabaseURL selects Postgres when set; otherwise the server falls
	// back to a local SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	JWTSecretKey    string
	TokenTTLMinutes int

	// An empty LLMAPIKey switches reply generation to the built-in mock
	// provider, which keeps local development offline.
	LLMAPIKey    string
	LLMBaseURL   string
	LLMModel     string
	HistoryTurns int
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "converse.db"),
		JWTSecretKey:    getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
		TokenTTLMinutes: getEnvAsInt("TOKEN_TTL_MINUTES", 30),
		LLMAPIKey:       getEnv("LLM_API_KEY", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		HistoryTurns:    getEnvAsInt("HISTORY_TURNS", 20),
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		if os.Getenv("JWT_SECRET_KEY") == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
