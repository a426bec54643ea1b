package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("BACKEND_URLS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Server.SSEPort)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://api.geoapify.com", cfg.Geoapify.BaseURL)
	assert.Equal(t, 5000, cfg.Geoapify.SearchRadiusM)
	assert.Equal(t, 20, cfg.Geoapify.ResultLimit)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Client.BackendURLs)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BACKEND_URLS", " http://a:8080 , ,https://b.example ")
	t.Setenv("GEOAPIFY_TIMEOUT", "3s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://a:8080", "https://b.example"}, cfg.Client.BackendURLs)
	assert.Equal(t, 3*time.Second, cfg.Geoapify.RequestTimeout)
	assert.True(t, cfg.Minio.UseSSL)
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", cfg.DatabaseDSN())
}
