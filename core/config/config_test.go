package config_test

import (
	"testing"

	"admanager-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://admanager.googleapis.com", cfg.GAM.Endpoint)
	assert.Equal(t, "admanager-sync", cfg.GAM.ApplicationName)
	assert.Equal(t, 30, cfg.GAM.TimeoutSeconds)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GAM_NETWORK_CODE", "12345678")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "12345678", cfg.GAM.NetworkCode)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}
