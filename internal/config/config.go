// Package config loads output-store settings from the environment, with a
// .env file as a local-development fallback.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseDir is the root directory for the filesystem backends.
	BaseDir string
	// S3 holds settings for the S3 backend; Enabled is false when no
	// endpoint is configured.
	S3 S3Config
	// PostgresDSN enables the Postgres backend when non-empty.
	PostgresDSN string
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseDir:     firstNonEmpty(strings.TrimSpace(os.Getenv("STEPSTORE_BASE_DIR")), "."),
		S3:          loadS3Config(),
		PostgresDSN: strings.TrimSpace(os.Getenv("STEPSTORE_PG_DSN")),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadS3Config() S3Config {
	endpoint := strings.TrimSpace(os.Getenv("STEPSTORE_S3_ENDPOINT"))
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("STEPSTORE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("STEPSTORE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("STEPSTORE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("STEPSTORE_S3_BUCKET")), "step-outputs"),
		UseSSL:    resolveUseSSL(),
	}
}

func resolveUseSSL() bool {
	raw := strings.TrimSpace(os.Getenv("STEPSTORE_S3_USE_SSL"))
	if raw == "" {
		return false
	}
	return strings.EqualFold(raw, "true") || raw == "1"
}

func (c *Config) validate() error {
	if !c.S3.Enabled {
		return nil
	}
	if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
		return errors.New("s3 access key and secret key are required when an endpoint is set")
	}
	if c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when an endpoint is set")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
