package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret      string
	TokenTTL       time.Duration
	CredentialSize int
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "openai"
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OllamaBaseURL     string
	OllamaEmbedModel  string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIEmbedModel  string
	SynthesisTimeout  time.Duration
	SynthesisWindow   int
}

type SearchConfig struct {
	TopK          int
	MinSimilarity float64
	CacheTTL      time.Duration
	AnswerCacheOn bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "DocKnowledge"),
		},
		Auth: AuthConfig{
			JwtSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       getEnvAsDuration("JWT_TTL", 24*time.Hour),
			CredentialSize: getEnvAsInt("CREDENTIAL_BYTES", 18),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OpenAIEmbedModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			SynthesisTimeout:  getEnvAsDuration("SYNTHESIS_TIMEOUT", 20*time.Second),
			SynthesisWindow:   getEnvAsInt("SYNTHESIS_WINDOW", 5),
		},
		Search: SearchConfig{
			TopK:          getEnvAsInt("SEARCH_TOP_K", 200),
			MinSimilarity: getEnvAsFloat("SEARCH_MIN_SIMILARITY", 0),
			CacheTTL:      getEnvAsDuration("SEARCH_CACHE_TTL", 30*time.Second),
			AnswerCacheOn: getEnv("ANSWER_CACHE", "true") == "true",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
