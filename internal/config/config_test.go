package config

import (
	"testing"
	"time"

	infraconfig "bcvrates-service/internal/infrastructure/config"
	"bcvrates-service/internal/infrastructure/relay"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsMatchInfraConstants(t *testing.T) {
	for _, key := range []string{
		"PORT", "CACHE_TTL_MS", "REFRESH_INTERVAL_MS", "TASK_QUEUE_SIZE", "RELAY_TIMEOUT_MS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, infraconfig.DefaultHTTPPort, cfg.Port)
	require.Equal(t, infraconfig.DefaultCacheTTL, cfg.CacheTTL)
	require.Equal(t, infraconfig.DefaultRefreshInterval, cfg.RefreshInterval)
	require.Equal(t, infraconfig.DefaultTaskQueueSize, cfg.TaskQueueSize)
	require.Equal(t, relay.DefaultAttemptTimeout, cfg.RelayTimeout)
}

func TestLoad_MillisecondOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL_MS", "60000")
	t.Setenv("REFRESH_INTERVAL_MS", "120000")
	t.Setenv("RELAY_TIMEOUT_MS", "5000")

	cfg := Load()
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	require.Equal(t, 5*time.Second, cfg.RelayTimeout)
}
