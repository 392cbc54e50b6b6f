package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config covers process level configuration read from the environment (and .env).
type Config struct {
	Environment    string
	Port           string
	DBDriver       string
	DatabaseURL    string
	SeedPath       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ConflictTTL    time.Duration
	MetricsEnabled bool
}

// Load reads .env when present, then environment variables with defaults.
// It reports whether a .env file was found so callers can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{
		Environment:    Get("APP_ENV", "development"),
		Port:           Get("PORT", "8080"),
		DBDriver:       Get("DB_DRIVER", "sqlite3"),
		DatabaseURL:    Get("DATABASE_URL", "file:data/dispatch.db?_foreign_keys=on"),
		SeedPath:       Get("SEED_PATH", "data/seeds/schedule.json"),
		RedisAddr:      Get("REDIS_ADDR", ""),
		RedisPassword:  Get("REDIS_PASSWORD", ""),
		MetricsEnabled: true,
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, dotenv, err
	}
	if cfg.ConflictTTL, err = getDuration("CONFLICT_CACHE_TTL", 30*time.Second); err != nil {
		return nil, dotenv, err
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", true); err != nil {
		return nil, dotenv, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, dotenv, err
	}
	return cfg, dotenv, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "pgx", "sqlite3":
	default:
		return fmt.Errorf("config: DB_DRIVER must be pgx or sqlite3, got %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.ConflictTTL <= 0 {
		return fmt.Errorf("config: CONFLICT_CACHE_TTL must be positive, got %s", c.ConflictTTL)
	}
	return nil
}

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
