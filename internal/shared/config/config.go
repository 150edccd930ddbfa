package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port              string
	CORSAllowOrigin   []string
	Env               string
	DatabaseURL       string
	BlobStoreType     string
	UploadsDir        string
	IndexDir          string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	EmbeddingProvider string
	EmbeddingModel    string
	OpenAIAPIKey      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:               env,
		DatabaseURL:       dbURL,
		BlobStoreType:     normalizeStoreType(getEnv("BLOB_STORE", "local")),
		UploadsDir:        getEnv("UPLOADS_DIR", "./uploads"),
		IndexDir:          getEnv("INDEX_DIR", "./indexes"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		EmbeddingProvider: normalizeEmbeddingProvider(getEnv("EMBEDDING_PROVIDER", "local")),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeEmbeddingProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "local"
	}
}
