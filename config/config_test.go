package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("ATTACHMENTS_S3_BUCKET", "todo-attachments")
	t.Setenv("JWT_SECRET", "secret")

	cfg, _, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorageBackendPostgres, cfg.StorageBackend)
	assert.Equal(t, AttachmentBackendS3, cfg.AttachmentBackend)
	assert.Equal(t, "todos", cfg.TodosTable)
	assert.Equal(t, 300*time.Second, cfg.SignedURLExpiration)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, TracingExporterOTLP, cfg.TracingExporter)
	assert.Equal(t, 1.0, cfg.TracingSampleRate)
	assert.Equal(t, "todo-api", cfg.ServiceName)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORAGE_BACKEND=dynamodb\nTODOS_TABLE=Todos-dev\nTODOS_BY_USER_INDEX=UserIdIndex\n" +
		"ATTACHMENT_BACKEND=local\nJWT_SECRET=s3cr3t\nSIGNED_URL_EXPIRATION=60\nPUBLIC_BASE_URL=http://example.test/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"STORAGE_BACKEND", "TODOS_TABLE", "TODOS_BY_USER_INDEX", "ATTACHMENT_BACKEND", "JWT_SECRET", "SIGNED_URL_EXPIRATION", "PUBLIC_BASE_URL"} {
			os.Unsetenv(key)
		}
	})

	cfg, loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, loaded)
	assert.Equal(t, StorageBackendDynamoDB, cfg.StorageBackend)
	assert.Equal(t, "Todos-dev", cfg.TodosTable)
	assert.Equal(t, AttachmentBackendLocal, cfg.AttachmentBackend)
	assert.Equal(t, time.Minute, cfg.SignedURLExpiration)
	assert.Equal(t, "http://example.test", cfg.PublicBaseURL)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		StorageBackend:      StorageBackendPostgres,
		AttachmentBackend:   AttachmentBackendS3,
		SignedURLExpiration: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL not set")
	assert.Contains(t, err.Error(), "ATTACHMENTS_S3_BUCKET not set")
	assert.Contains(t, err.Error(), "SIGNED_URL_EXPIRATION must be positive")
	assert.Contains(t, err.Error(), "JWT_SECRET or JWT_PUBLIC_KEY")
}

func TestValidateRejectsUnknownBackends(t *testing.T) {
	cfg := Config{
		StorageBackend:      "mongo",
		AttachmentBackend:   "gcs",
		SignedURLExpiration: time.Minute,
		JWTSecret:           "x",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORAGE_BACKEND "mongo"`)
	assert.Contains(t, err.Error(), `unknown ATTACHMENT_BACKEND "gcs"`)
}

func TestValidateTracing(t *testing.T) {
	cfg := Config{
		StorageBackend:      StorageBackendMemory,
		AttachmentBackend:   AttachmentBackendLocal,
		UploadDir:           "uploads",
		SignedURLExpiration: time.Minute,
		JWTSecret:           "x",
		TracingEnabled:      true,
		TracingExporter:     "jaeger",
		TracingSampleRate:   1.5,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown TRACING_EXPORTER "jaeger"`)
	assert.Contains(t, err.Error(), "TRACING_SAMPLE_RATE")

	cfg.TracingExporter = TracingExporterZipkin
	cfg.TracingSampleRate = 0.25
	assert.NoError(t, cfg.Validate())
}
