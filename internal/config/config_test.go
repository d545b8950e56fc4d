package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithSQLite(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverSQLite)
	t.Setenv("CACHE_DRIVER", DriverNone)
	t.Setenv("NOTIFY_DRIVER", DriverLog)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, "ticket_tasks", cfg.Notification.QueueKey)
	assert.Equal(t, time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 2*time.Second, cfg.SideChannel.Timeout())
	assert.False(t, cfg.UsesRedis())
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")

	t.Setenv("STORE_DRIVER", StoreDriverSQLite)
	t.Setenv("CACHE_DRIVER", "memcached")
	_, err = Load()
	assert.ErrorContains(t, err, "CACHE_DRIVER")
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
