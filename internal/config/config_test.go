package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "DATABASE_URL", "DB_DRIVER", "REDIS_URL", "JWT_SECRET", "TOKEN_DURATION",
	"HISTORY_CAP", "CATCH_UP_LIMIT", "DEFAULT_ROOM", "SEND_BUFFER", "PERSIST_TIMEOUT", "SHUTDOWN_TIMEOUT",
}

// clearEnv убирает переменные на время теста: пустое значение go-env
// считает заданным и не подставляет default.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	clearEnv(t)

	cfg, err := Load()
	req.NoError(err)
	req.Equal(8080, cfg.Port)
	req.Equal(":8080", cfg.Addr())
	req.Equal("postgres", cfg.DBDriver)
	req.Equal(1000, cfg.HistoryCap)
	req.Equal(50, cfg.CatchUpLimit)
	req.Equal("general", cfg.DefaultRoom)
	req.Equal(256, cfg.SendBuffer)
	req.Equal(30*time.Second, cfg.ShutdownTimeout)
	req.Equal(24*time.Hour, cfg.TokenDuration)
}

func TestLoad_Overrides(t *testing.T) {
	req := require.New(t)
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HISTORY_CAP", "10")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	req.NoError(err)
	req.Equal(9090, cfg.Port)
	req.Equal("sqlite", cfg.DBDriver)
	req.Equal(10, cfg.HistoryCap)
	req.Equal(5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HISTORY_CAP", "lots")
	_, err = Load()
	require.Error(t, err)
}
