package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

const (
	EmbeddingOpenAI EmbeddingProvider = "openai"
	EmbeddingOllama EmbeddingProvider = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM generation
	LLMProvider     Provider
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Embeddings
	EmbeddingProvider EmbeddingProvider
	EmbeddingModel    string

	// Qdrant knowledge base
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	// Transcription
	WhisperModel string

	// Trigger dispatcher
	PollInterval  time.Duration
	StageTimeout  time.Duration
	MaxConcurrent int

	// HTTP server
	ServerPort int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Defaults match the local docker-compose development setup.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "clinicai"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "pipeline"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(getEnv("CLINICAI_LLM_PROVIDER", "openai")),
		LLMModel:        getEnv("CLINICAI_LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		EmbeddingProvider: EmbeddingProvider(getEnv("CLINICAI_EMBEDDING_PROVIDER", "openai")),
		EmbeddingModel:    getEnv("CLINICAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "medical_knowledge"),

		WhisperModel: getEnv("CLINICAI_WHISPER_MODEL", "whisper-1"),

		PollInterval:  getEnvDuration("CLINICAI_POLL_INTERVAL", 2*time.Second),
		StageTimeout:  getEnvDuration("CLINICAI_STAGE_TIMEOUT", 5*time.Minute),
		MaxConcurrent: getEnvInt("CLINICAI_MAX_CONCURRENT", 8),

		ServerPort: getEnvInt("CLINICAI_SERVER_PORT", 8686),

		LogFile:  getEnv("CLINICAI_LOG_FILE", "/tmp/clinicai.log"),
		LogLevel: parseLogLevel(getEnv("CLINICAI_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
