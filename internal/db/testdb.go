package db

import (
	"context"
	"testing"
)

// NewTestDB creates a fresh in-memory SQLite ledger store with migrations applied.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	d, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := Migrate(context.Background(), d); err != nil {
		d.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() { d.Close() })

	return d
}
