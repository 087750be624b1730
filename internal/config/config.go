package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// LLM provider
	LLMProvider      string
	OpenAIAPIKey     string
	OpenAIModel      string
	Temperature      float32
	GeminiAPIKey     string
	GeminiConcurrent int

	// Conversation memory
	MemoryBackend   string
	RedisURL        string
	MaxHistoryTurns int

	// Agent
	AgentMaxIterations int
	SearchMaxResults   int

	// HTTP
	ChatRateLimit int
	AllowedOrigin string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "5000"),
		Env:                getEnvOrDefault("ENV", "development"),
		LLMProvider:        getEnvOrDefault("LLM_PROVIDER", "openai"),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:        getEnvAsFloatOrDefault("OPENAI_TEMPERATURE", 0.7),
		GeminiConcurrent:   getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 3),
		MemoryBackend:      getEnvOrDefault("MEMORY_BACKEND", "memory"),
		MaxHistoryTurns:    getEnvAsIntOrDefault("MAX_HISTORY_TURNS", 10),
		AgentMaxIterations: getEnvAsIntOrDefault("AGENT_MAX_ITERATIONS", 3),
		SearchMaxResults:   getEnvAsIntOrDefault("SEARCH_MAX_RESULTS", 6),
		ChatRateLimit:      getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		AllowedOrigin:      getEnvOrDefault("ALLOWED_ORIGIN", "*"),
	}

	switch cfg.LLMProvider {
	case "openai":
		cfg.OpenAIAPIKey = mustGetEnv("OPENAI_API_KEY")
	case "gemini":
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	default:
		panic(fmt.Sprintf("unknown LLM_PROVIDER %q (want openai or gemini)", cfg.LLMProvider))
	}

	if cfg.MemoryBackend == "redis" {
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float32) float32 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return defaultVal
	}
	return float32(f)
}
