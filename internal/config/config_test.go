package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"filesharing-service/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origWd) })
}

func TestLoad_FromEnvFile(t *testing.T) {
	td := t.TempDir()
	envContent := `APP_ENV=dev
HTTP_PORT=9090
JWT_TOKEN=very_very_secret_key

POSTGRES_HOST=localhost
POSTGRES_PORT=5433
POSTGRES_USER=fileshare
POSTGRES_PASSWORD=fileshare
POSTGRES_DB=fileshare

REDIS_HOST=localhost
REDIS_PORT=6380
REDIS_PASSWORD=
REDIS_DB=0

MINIO_ACCESS_KEY=minio
MINIO_SECRET_KEY=minio123
`
	assert.NoError(t, os.WriteFile(filepath.Join(td, ".env"), []byte(envContent), 0o644))
	chdir(t, td)

	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "very_very_secret_key", cfg.JWTSecret)

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, uint16(5433), cfg.Postgres.Port)
	assert.Equal(t, "fileshare", cfg.Postgres.Database)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.Db)

	assert.Equal(t, "minio", cfg.MinIO.AccessKey)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "files", cfg.MinIO.Bucket)
}

func TestLoad_MissingRequiredSecret(t *testing.T) {
	td := t.TempDir()
	chdir(t, td)

	os.Unsetenv("JWT_TOKEN")
	os.Unsetenv("MINIO_ACCESS_KEY")
	os.Unsetenv("MINIO_SECRET_KEY")

	_, err := config.Load()
	assert.Error(t, err)
}
