package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VERDICT_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VERDICT_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// FactFile is the path of the durable fact document.
func FactFile() string {
	p := os.Getenv("FACT_FILE")
	if p == "" {
		return "data/facts.json"
	}
	return p
}

// SuggestionFile is the path of the durable suggestion log.
func SuggestionFile() string {
	p := os.Getenv("SUGGESTION_FILE")
	if p == "" {
		return "data/suggestions.json"
	}
	return p
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// OracleProvider returns the configured judgement oracle provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func OracleProvider() string {
	p := os.Getenv("ORACLE_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// OracleAPIKey returns the API key for the configured oracle provider.
func OracleAPIKey() string {
	switch OracleProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	if EmbeddingProvider() == "mock" {
		return ""
	}
	return OpenAIAPIKey()
}

// IndexProvider returns the configured retrieval index provider.
// Defaults to "memory" if not set.
// Valid values: pgvector, memory
func IndexProvider() string {
	p := os.Getenv("INDEX_PROVIDER")
	if p == "" {
		return "memory"
	}
	return p
}

// WorkerPoolSize bounds concurrent oracle calls per classification.
// Defaults to 10 if not set.
func WorkerPoolSize() int {
	n, err := strconv.Atoi(os.Getenv("WORKER_POOL_SIZE"))
	if err != nil || n <= 0 {
		return 10
	}
	return n
}

// ClassifyThreshold is the default early-exit confidence threshold.
// Defaults to 0.9 if not set.
func ClassifyThreshold() float64 {
	t, err := strconv.ParseFloat(os.Getenv("CLASSIFY_THRESHOLD"), 64)
	if err != nil || t <= 0 || t > 1 {
		return 0.9
	}
	return t
}

// APIKey is the static key required on /v1 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
