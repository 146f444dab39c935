package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// pebbleKeyPrefix namespaces collection keys inside the pebble keyspace.
const pebbleKeyPrefix = "collection/"

// OpenPebble opens a ledger store kept in a pebble directory.
func OpenPebble(dir string) (*DB, error) {
	p, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return New(&pebbleBackend{db: p}), nil
}

type pebbleBackend struct {
	db *pebble.DB
}

func (b *pebbleBackend) Get(_ context.Context, name string) ([]byte, error) {
	v, closer, err := b.db.Get([]byte(pebbleKeyPrefix + name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", name, err)
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

func (b *pebbleBackend) SetAll(_ context.Context, writes map[string][]byte) error {
	wb := b.db.NewBatch()
	defer wb.Close()
	for name, data := range writes {
		if err := wb.Set([]byte(pebbleKeyPrefix+name), data, nil); err != nil {
			return fmt.Errorf("staging collection %s: %w", name, err)
		}
	}
	if err := wb.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

func (b *pebbleBackend) Close() error {
	return b.db.Close()
}
