package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFansOut(t *testing.T) {
	var a, b []Event
	bus := NewBus(WriterFunc(func(e Event) error { a = append(a, e); return nil }))
	bus.Subscribe(WriterFunc(func(e Event) error { b = append(b, e); return nil }))

	require.NoError(t, bus.Publish(Event{Kind: OrderPlaced, Entity: "order", ID: 3}))

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, OrderPlaced, a[0].Kind)
	assert.False(t, a[0].At.IsZero())
}

func TestBusCollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	var delivered int
	bus := NewBus(
		WriterFunc(func(Event) error { return boom }),
		WriterFunc(func(Event) error { delivered++; return nil }),
	)

	err := bus.Publish(Event{Kind: LowStock})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, delivered)
}

func TestFileWriterAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "events.jsonl")
	w, err := NewFileWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Append(Event{Kind: PurchaseRecorded, Entity: "purchase", ID: 1}))
	require.NoError(t, w.Append(Event{Kind: PurchaseDeleted, Entity: "purchase", ID: 1}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var kinds []Kind
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []Kind{PurchaseRecorded, PurchaseDeleted}, kinds)
}
