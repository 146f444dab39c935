// Package events lets observers register for ledger changes. The application
// layer publishes one event per successful mutation and one per low-stock alert.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Kind names what happened.
type Kind string

// Event kinds.
const (
	PurchaseRecorded Kind = "purchase.recorded"
	PurchaseUpdated  Kind = "purchase.updated"
	PurchaseDeleted  Kind = "purchase.deleted"
	ProductCreated   Kind = "product.created"
	ProductUpdated   Kind = "product.updated"
	ProductDeleted   Kind = "product.deleted"
	OrderPlaced      Kind = "order.placed"
	OrderUpdated     Kind = "order.updated"
	OrderDeleted     Kind = "order.deleted"
	InventoryChanged Kind = "inventory.changed"
	InventoryDeleted Kind = "inventory.deleted"
	LowStock         Kind = "inventory.low_stock"
	RecordChanged    Kind = "record.changed"
	RecordDeleted    Kind = "record.deleted"
)

// Event is one change to the ledger.
type Event struct {
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
	Entity  string    `json:"entity"`
	ID      int64     `json:"id"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// Writer receives published events.
type Writer interface {
	Append(e Event) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(e Event) error

func (f WriterFunc) Append(e Event) error { return f(e) }

// Bus fans events out to its subscribers.
type Bus struct {
	mu      sync.RWMutex
	writers []Writer
}

// NewBus returns a bus with the given subscribers.
func NewBus(ws ...Writer) *Bus {
	return &Bus{writers: ws}
}

// Subscribe registers another writer.
func (b *Bus) Subscribe(w Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writers = append(b.writers, w)
}

// Publish delivers e to every subscriber. A failing subscriber does not stop
// delivery to the rest; all failures are returned together.
func (b *Bus) Publish(e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	writers := append([]Writer(nil), b.writers...)
	b.mu.RUnlock()

	var errs []error
	for _, w := range writers {
		if err := w.Append(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FileWriter appends events to a JSON lines journal.
type FileWriter struct {
	mu   sync.Mutex
	path string
}

// NewFileWriter creates the journal directory if needed.
func NewFileWriter(path string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileWriter{path: path}, nil
}

func (w *FileWriter) Append(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(&e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
