package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"TETHER_DATA_DIR": "/var/lib/tether"})
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tether", cfg.DataDir)
	assert.Equal(t, filepath.Join("/var/lib/tether", "keyboard"), cfg.KeyboardDir)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 16, cfg.BridgeBuffer)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.TokenSecret)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestLoadFrom_HomeFallback(t *testing.T) {
	t.Setenv("HOME", "/home/sam")
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/sam", ".tether"), cfg.DataDir)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"TETHER_DATA_DIR":      "/data",
		"TETHER_KEYBOARD_DIR":  "/shared/group",
		"TETHER_TOKEN_SECRET":  "s3cret",
		"TETHER_TOKEN_TTL":     "1h",
		"TETHER_LOG_LEVEL":     "debug",
		"TETHER_METRICS_ADDR":  ":9090",
		"TETHER_BRIDGE_BUFFER": "4",
		"TETHER_QUESTION_BANK": "/etc/tether/bank.yaml",
	})
	require.NoError(t, err)
	assert.Equal(t, "/shared/group", cfg.KeyboardDir)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BridgeBuffer)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "/etc/tether/bank.yaml", cfg.QuestionBank)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad level", map[string]string{"TETHER_DATA_DIR": "/d", "TETHER_LOG_LEVEL": "loud"}},
		{"zero buffer", map[string]string{"TETHER_DATA_DIR": "/d", "TETHER_BRIDGE_BUFFER": "0"}},
		{"negative ttl", map[string]string{"TETHER_DATA_DIR": "/d", "TETHER_TOKEN_TTL": "-1h"}},
		{"unparseable buffer", map[string]string{"TETHER_DATA_DIR": "/d", "TETHER_BRIDGE_BUFFER": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}
