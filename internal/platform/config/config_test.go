package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/oneflow/internal/platform/config"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1), cfg.NumberingNodeID)
	assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	assert.True(t, decimal.NewFromInt(18).Equal(cfg.DefaultTaxRate))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres", "PGSQL_URL": ""}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}},
		{"node id out of range", map[string]string{"STORAGE_DRIVER": "memory", "NUMBERING_NODE_ID": "1024"}},
		{"negative tax rate", map[string]string{"STORAGE_DRIVER": "memory", "DEFAULT_TAX_RATE": "-1"}},
		{"negative lock timeout", map[string]string{"STORAGE_DRIVER": "memory", "DB_LOCK_TIMEOUT": "-1s"}},
		{"malformed tax rate", map[string]string{"STORAGE_DRIVER": "memory", "DEFAULT_TAX_RATE": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.LoadConfig()
			assert.Error(t, err)
		})
	}
}
