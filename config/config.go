// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendDynamoDB = "dynamodb"
	StorageBackendMemory   = "memory"

	AttachmentBackendS3    = "s3"
	AttachmentBackendLocal = "local"

	TracingExporterOTLP   = "otlp"
	TracingExporterZipkin = "zipkin"
)

// Config is read once at start-up and never mutated afterwards.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StorageBackend   string
	DatabaseURL      string
	TodosTable       string
	TodosByUserIndex string
	AWSRegion        string

	AttachmentBackend   string
	AttachmentsBucket   string
	SignedURLExpiration time.Duration
	UploadDir           string
	PublicBaseURL       string

	JWTSecret    string
	JWTPublicKey string

	TracingEnabled    bool
	TracingExporter   string
	TracingEndpoint   string
	TracingSampleRate float64
	ServiceName       string
}

// Load reads an optional env file (".env" when envFile is empty) and then
// the process environment.
func Load(envFile string) (Config, bool, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	envLoaded := godotenv.Load(files...) == nil

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:                v.GetString("PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		StorageBackend:      strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		TodosTable:          v.GetString("TODOS_TABLE"),
		TodosByUserIndex:    v.GetString("TODOS_BY_USER_INDEX"),
		AWSRegion:           v.GetString("AWS_REGION"),
		AttachmentBackend:   strings.ToLower(v.GetString("ATTACHMENT_BACKEND")),
		AttachmentsBucket:   v.GetString("ATTACHMENTS_S3_BUCKET"),
		SignedURLExpiration: time.Duration(v.GetInt("SIGNED_URL_EXPIRATION")) * time.Second,
		UploadDir:           v.GetString("UPLOAD_DIR"),
		PublicBaseURL:       strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTPublicKey:        v.GetString("JWT_PUBLIC_KEY"),
		TracingEnabled:      v.GetBool("TRACING_ENABLED"),
		TracingExporter:     strings.ToLower(v.GetString("TRACING_EXPORTER")),
		TracingEndpoint:     v.GetString("TRACING_ENDPOINT"),
		TracingSampleRate:   v.GetFloat64("TRACING_SAMPLE_RATE"),
		ServiceName:         v.GetString("SERVICE_NAME"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, envLoaded, err
	}
	return cfg, envLoaded, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("STORAGE_BACKEND", StorageBackendPostgres)
	v.SetDefault("TODOS_TABLE", "todos")
	v.SetDefault("TODOS_BY_USER_INDEX", "UserIdIndex")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("ATTACHMENT_BACKEND", AttachmentBackendS3)
	v.SetDefault("SIGNED_URL_EXPIRATION", 300)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", TracingExporterOTLP)
	v.SetDefault("TRACING_SAMPLE_RATE", 1.0)
	v.SetDefault("SERVICE_NAME", "todo-api")
}

// Validate checks that every setting the selected backends need is present.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL not set"))
		}
		if c.TodosTable == "" {
			errs = append(errs, errors.New("TODOS_TABLE not set"))
		}
	case StorageBackendDynamoDB:
		if c.TodosTable == "" {
			errs = append(errs, errors.New("TODOS_TABLE not set"))
		}
		if c.TodosByUserIndex == "" {
			errs = append(errs, errors.New("TODOS_BY_USER_INDEX not set"))
		}
	case StorageBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.AttachmentBackend {
	case AttachmentBackendS3:
		if c.AttachmentsBucket == "" {
			errs = append(errs, errors.New("ATTACHMENTS_S3_BUCKET not set"))
		}
	case AttachmentBackendLocal:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR not set"))
		}
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required to sign local upload URLs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ATTACHMENT_BACKEND %q", c.AttachmentBackend))
	}

	if c.SignedURLExpiration <= 0 {
		errs = append(errs, errors.New("SIGNED_URL_EXPIRATION must be positive"))
	}
	if c.TracingEnabled {
		switch c.TracingExporter {
		case TracingExporterOTLP, TracingExporterZipkin:
		default:
			errs = append(errs, fmt.Errorf("unknown TRACING_EXPORTER %q", c.TracingExporter))
		}
		if c.TracingSampleRate <= 0 || c.TracingSampleRate > 1 {
			errs = append(errs, errors.New("TRACING_SAMPLE_RATE must be in (0, 1]"))
		}
	}
	if c.JWTSecret == "" && c.JWTPublicKey == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_PUBLIC_KEY must be set"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
