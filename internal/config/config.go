// Package config resolves runtime settings. Values come from the environment,
// optionally seeded from a .env file; command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/pridelek/internal/db"
)

// Environment variable names.
const (
	EnvBackend       = "PRIDELEK_BACKEND"
	EnvPath          = "PRIDELEK_PATH"
	EnvRedisAddr     = "PRIDELEK_REDIS_ADDR"
	EnvRedisPassword = "PRIDELEK_REDIS_PASSWORD"
	EnvRedisDB       = "PRIDELEK_REDIS_DB"
	EnvLog           = "PRIDELEK_LOG"
	EnvMetrics       = "PRIDELEK_METRICS"
	EnvJournal       = "PRIDELEK_JOURNAL"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = "pridelek.sqlite3"

type Config struct {
	Store       StoreConfig
	LogPath     string
	MetricsPath string
	JournalPath string
	Verbose     bool
}

type StoreConfig struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultEnvFile is read when no environment file is named. It may be absent.
const DefaultEnvFile = ".env"

// Load reads envFile and then the environment. An empty envFile means
// DefaultEnvFile, which is skipped when missing; a named file must exist.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	redisDB, _ := strconv.Atoi(getEnv(EnvRedisDB, "0"))

	return &Config{
		Store: StoreConfig{
			Backend:       getEnv(EnvBackend, db.BackendSQLite),
			Path:          getEnv(EnvPath, DefaultPath),
			RedisAddr:     getEnv(EnvRedisAddr, "localhost:6379"),
			RedisPassword: getEnv(EnvRedisPassword, ""),
			RedisDB:       redisDB,
		},
		LogPath:     getEnv(EnvLog, ""),
		MetricsPath: getEnv(EnvMetrics, ""),
		JournalPath: getEnv(EnvJournal, ""),
	}, nil
}

// DBOptions returns the options for db.Open.
func (c *Config) DBOptions() db.Options {
	return db.Options{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
