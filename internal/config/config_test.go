package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "yrush_data.json", cfg.Store.DataFile)
	assert.Equal(t, 3, cfg.Store.SaveAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Store.SaveBackoff)
	assert.Equal(t, "linear", cfg.Orders.StatusMode)
	assert.Empty(t, cfg.KafkaBrokers)

	fee, err := cfg.Orders.Fee()
	require.NoError(t, err)
	assert.Equal(t, "5", fee.String())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("YRUSH_STORE_BACKEND", "redis")
	t.Setenv("YRUSH_KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("YRUSH_DELIVERY_FEE", "7.50")
	t.Setenv("YRUSH_STATUS_MODE", "binary")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "binary", cfg.Orders.StatusMode)

	fee, err := cfg.Orders.Fee()
	require.NoError(t, err)
	assert.Equal(t, "7.5", fee.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"YRUSH_STORE_BACKEND": "sqlite",
		"YRUSH_STATUS_MODE":   "toggle",
		"YRUSH_DELIVERY_FEE":  "-1",
		"YRUSH_SAVE_ATTEMPTS": "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadBoardAndCartSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("YRUSH_BOARD_WORKERS", "8")
	t.Setenv("YRUSH_CART_IDLE", "45m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "orderboard", cfg.Board.Group)
	assert.Equal(t, 8, cfg.Board.Workers)
	assert.Equal(t, 45*time.Minute, cfg.Orders.CartIdle)
}
