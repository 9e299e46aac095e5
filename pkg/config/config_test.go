package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProfileEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("FLASK_ENV", "")
	t.Setenv("TESTING", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
}

func TestNew_ProductionRequiresSecrets(t *testing.T) {
	clearProfileEnv(t)
	t.Setenv("FLASK_ENV", "production")
	t.Setenv("SECRET_KEY", "prod-secret")
	t.Setenv("JWT_SECRET_KEY", "")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "jwt_secret_key")
}

func TestNew_ProductionWithSecrets(t *testing.T) {
	clearProfileEnv(t)
	t.Setenv("FLASK_ENV", "production")
	t.Setenv("SECRET_KEY", "prod-secret")
	t.Setenv("JWT_SECRET_KEY", "prod-jwt-secret")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProduction, cfg.Environment)
	assert.Equal(t, "prod-jwt-secret", cfg.JWTSecretKey)
	assert.True(t, cfg.IsProduction())
}

func TestNew_DatabaseURLOverridesProfile(t *testing.T) {
	clearProfileEnv(t)
	t.Setenv("DATABASE_URL", "/tmp/override.sqlite")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)
	assert.Equal(t, "/tmp/override.sqlite", cfg.DatabaseURL)
}

func TestNew_WithConfigFile(t *testing.T) {
	clearProfileEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_url: /data/from-file.sqlite
server_port: 8080
database_debug: false
access_token_expiry: 15m
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-file.sqlite", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	clearProfileEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_url: /data/from-file.sqlite
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DATABASE_URL", "/data/from-env.sqlite")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.sqlite", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestNew_Defaults(t *testing.T) {
	clearProfileEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, 5050, cfg.ServerPort)
}

func TestEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		flaskEnv string
		testing  string
		want     string
	}{
		{"default is development", "", "", "", EnvironmentDevelopment},
		{"flask env production", "", "production", "", EnvironmentProduction},
		{"environment wins over flask env", "staging", "production", "", EnvironmentStaging},
		{"testing flag forces test", "production", "", "1", EnvironmentTest},
		{"unknown falls back", "qa", "", "", EnvironmentDevelopment},
		{"falsy testing flag ignored", "production", "", "0", EnvironmentProduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("FLASK_ENV", tt.flaskEnv)
			t.Setenv("TESTING", tt.testing)
			assert.Equal(t, tt.want, Environment())
		})
	}
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, EnvironmentTest, cfg.Environment)
	assert.NotEmpty(t, cfg.JWTSecretKey)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "database_url", toSnakeCase("DatabaseURL"))
	assert.Equal(t, "server_port", toSnakeCase("ServerPort"))
	assert.Equal(t, "jwt_secret_key", toSnakeCase("JWTSecretKey"))
}
