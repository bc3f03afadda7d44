// Package config loads and validates the process configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	ProjectID    string
	VertexRegion string

	UploadBucket     string
	TranscriptPrefix string
	PresignTTL       time.Duration

	DocAILocation            string
	DocAIStructuredProcessor string
	DocAIOCRProcessor        string
	DocAIProcessorVersion    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment. Every value without a sane
// default must be set or Load fails; a half-configured process should never
// come up.
func Load() (Config, error) {
	cfg := Config{
		Port:                     getEnv("PORT", "8080"),
		ProjectID:                getEnv("PROJECT_ID", ""),
		VertexRegion:             getEnv("VERTEX_REGION", "us-central1"),
		UploadBucket:             getEnv("UPLOAD_BUCKET", ""),
		TranscriptPrefix:         getEnv("TRANSCRIPT_PREFIX", "transcripts"),
		DocAILocation:            getEnv("DOCAI_LOCATION", "us"),
		DocAIStructuredProcessor: getEnv("DOCAI_FORM_PROCESSOR_ID", ""),
		DocAIOCRProcessor:        getEnv("DOCAI_OCR_PROCESSOR_ID", ""),
		DocAIProcessorVersion:    getEnv("DOCAI_PROCESSOR_VERSION", ""),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
	}

	if cfg.ProjectID == "" {
		return cfg, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if cfg.UploadBucket == "" {
		return cfg, fmt.Errorf("UPLOAD_BUCKET environment variable must be set")
	}
	if cfg.DocAIStructuredProcessor == "" {
		return cfg, fmt.Errorf("DOCAI_FORM_PROCESSOR_ID environment variable must be set")
	}
	if cfg.DocAIOCRProcessor == "" {
		return cfg, fmt.Errorf("DOCAI_OCR_PROCESSOR_ID environment variable must be set")
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return cfg, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	cfg.RedisDB = db

	ttlMinutes, err := strconv.Atoi(getEnv("PRESIGN_TTL_MINUTES", "60"))
	if err != nil {
		return cfg, fmt.Errorf("PRESIGN_TTL_MINUTES must be an integer: %w", err)
	}
	cfg.PresignTTL = time.Duration(ttlMinutes) * time.Minute

	return cfg, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
