package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Cache and notification drivers.
const (
	DriverRedis  = "redis"
	DriverPebble = "pebble"
	DriverLog    = "log"
	DriverNone   = "none"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Notification NotificationConfig
	SideChannel  SideChannelConfig
	Logger       LoggerConfig
	Auth         AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// StoreConfig selects and tunes the primary store.
type StoreConfig struct {
	Driver         string
	RunMigrations  bool
	PostgresDSN    string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	SQLitePath     string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the best-effort record mirror.
type CacheConfig struct {
	Driver     string
	TTLSeconds int
	PebbleDir  string
}

// NotificationConfig controls the state-change signal.
type NotificationConfig struct {
	Driver   string
	QueueKey string
}

// SideChannelConfig sizes the background pool that runs cache and notify calls.
type SideChannelConfig struct {
	Workers   int
	QueueSize int
	TimeoutMS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-tickets"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Driver:         getEnv("STORE_DRIVER", StoreDriverPostgres),
			RunMigrations:  getEnvAsBool("STORE_RUN_MIGRATIONS", true),
			PostgresDSN:    os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			SQLitePath:     getEnv("SQLITE_PATH", "tickets.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Driver:     getEnv("CACHE_DRIVER", DriverRedis),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 3600),
			PebbleDir:  getEnv("CACHE_PEBBLE_DIR", "cache.pebble"),
		},
		Notification: NotificationConfig{
			Driver:   getEnv("NOTIFY_DRIVER", DriverRedis),
			QueueKey: getEnv("NOTIFY_QUEUE_KEY", "ticket_tasks"),
		},
		SideChannel: SideChannelConfig{
			Workers:   getEnvAsInt("SIDE_CHANNEL_WORKERS", 4),
			QueueSize: getEnvAsInt("SIDE_CHANNEL_QUEUE_SIZE", 256),
			TimeoutMS: getEnvAsInt("SIDE_CHANNEL_TIMEOUT_MS", 2000),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN required for store driver %q", c.Store.Driver)
		}
	case StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case DriverRedis, DriverPebble, DriverNone:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver)
	}
	switch c.Notification.Driver {
	case DriverRedis, DriverLog, DriverNone:
	default:
		return fmt.Errorf("unknown NOTIFY_DRIVER %q", c.Notification.Driver)
	}
	return nil
}

// UsesRedis reports whether any side channel needs a redis client.
func (c *Config) UsesRedis() bool {
	return c.Cache.Driver == DriverRedis || c.Notification.Driver == DriverRedis
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the cache expiry; zero means entries never expire.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the per-job deadline for side-channel calls.
func (s SideChannelConfig) Timeout() time.Duration {
	if s.TimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
