package db

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open opens the configured backend and applies pending migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	var (
		d   *DB
		err error
	)
	switch opts.Backend {
	case BackendSQLite, "":
		d, err = OpenSQLite(opts.Path)
	case BackendPebble:
		d, err = OpenPebble(opts.Path)
	case BackendRedis:
		d, err = OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case BackendMemory:
		d = NewMemory()
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, d); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}
