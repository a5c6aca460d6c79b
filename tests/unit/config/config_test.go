package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "docdiff-uploads", cfg.S3.Bucket)
	assert.Equal(t, int64(50), cfg.S3.MaxFileSizeMB)
	assert.Equal(t, 5, cfg.Jobs.Concurrency)
	assert.Equal(t, 300, cfg.Jobs.TimeoutSecs)
	assert.Equal(t, "us", cfg.DocAI.Location)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCDIFF_SERVER_PORT", ":9090")
	t.Setenv("DOCDIFF_DB_HOST", "db.internal")
	t.Setenv("DOCDIFF_JOBS_CONCURRENCY", "2")
	t.Setenv("DOCDIFF_GEMINI_MODEL", "gemini-1.5-flash")
	t.Setenv("DOCDIFF_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 2, cfg.Jobs.Concurrency)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7777")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "docdiff",
		Password: "secret",
		Name:     "docdiff_db",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "docdiff:secret@localhost:5432/docdiff_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
