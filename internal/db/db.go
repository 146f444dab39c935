package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Backend persists whole collections by name. Each collection is one JSON array.
type Backend interface {
	// Get returns the stored collection, or nil if it has never been written.
	Get(ctx context.Context, name string) ([]byte, error)
	// SetAll writes every collection in writes atomically.
	SetAll(ctx context.Context, writes map[string][]byte) error
	Close() error
}

// DB is the ledger store. Mutations run one at a time through Update, which reads
// full collections, lets the caller compute new state in memory and commits every
// touched collection in a single backend write.
type DB struct {
	backend Backend
	mu      sync.Mutex
}

// ErrReadOnly is returned by Tx.Put inside View.
var ErrReadOnly = errors.New("read-only transaction")

// New wraps a backend.
func New(b Backend) *DB {
	return &DB{backend: b}
}

// Get returns the raw JSON of a collection, or nil if it does not exist.
func (d *DB) Get(ctx context.Context, name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backend.Get(ctx, name)
}

// Set replaces a collection with the given JSON.
func (d *DB) Set(ctx context.Context, name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backend.SetAll(ctx, map[string][]byte{name: data})
}

// Close closes the backend.
func (d *DB) Close() error {
	return d.backend.Close()
}

// Update runs fn with exclusive access to the store. Collections passed to Tx.Put
// are written together once fn returns nil. If fn fails nothing is written.
func (d *DB) Update(ctx context.Context, fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &Tx{ctx: ctx, backend: d.backend, staged: map[string][]byte{}}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}
	if err := d.backend.SetAll(ctx, tx.staged); err != nil {
		return fmt.Errorf("committing collections: %w", err)
	}
	return nil
}

// View runs fn with a read-only transaction.
func (d *DB) View(ctx context.Context, fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &Tx{ctx: ctx, backend: d.backend, readOnly: true}
	return fn(tx)
}

// Tx gives a transaction function access to collections.
type Tx struct {
	ctx      context.Context
	backend  Backend
	staged   map[string][]byte
	readOnly bool
}

// Load decodes a collection into dst. A missing collection leaves dst untouched.
// Every call decodes afresh, so loaded values never alias earlier loads.
func (tx *Tx) Load(name string, dst any) error {
	data, ok := tx.staged[name]
	if !ok {
		var err error
		data, err = tx.backend.Get(tx.ctx, name)
		if err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// Put stages a collection to be written when the transaction commits.
func (tx *Tx) Put(name string, v any) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	tx.staged[name] = data
	return nil
}

// PutRaw stages already encoded JSON.
func (tx *Tx) PutRaw(name string, data []byte) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	tx.staged[name] = append([]byte(nil), data...)
	return nil
}

// Context returns the context the transaction runs under.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}
