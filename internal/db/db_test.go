package db

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"testing"
)

type entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// backendsUnderTest opens every backend available in the test environment.
func backendsUnderTest(t *testing.T) map[string]*DB {
	t.Helper()

	out := map[string]*DB{
		"memory": NewMemory(),
		"sqlite": NewTestDB(t),
	}

	p, err := OpenPebble(t.TempDir())
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	out["pebble"] = p

	if addr := os.Getenv("PRIDELEK_TEST_REDIS_ADDR"); addr != "" {
		index, _ := strconv.Atoi(os.Getenv("PRIDELEK_TEST_REDIS_DB"))
		r, err := OpenRedis(context.Background(), addr, "", index)
		if err != nil {
			t.Fatalf("OpenRedis: %v", err)
		}
		out["redis"] = r
	}

	for _, d := range out {
		d := d
		t.Cleanup(func() { d.Close() })
	}
	return out
}

func TestUpdateCommitsAllCollections(t *testing.T) {
	ctx := context.Background()
	for name, d := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			err := d.Update(ctx, func(tx *Tx) error {
				if err := tx.Put(Farmers, []entry{{ID: 1, Name: "Ana"}}); err != nil {
					return err
				}
				return tx.Put(Customers, []entry{{ID: 1, Name: "Bor"}})
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}

			var farmers, customers []entry
			err = d.View(ctx, func(tx *Tx) error {
				if err := tx.Load(Farmers, &farmers); err != nil {
					return err
				}
				return tx.Load(Customers, &customers)
			})
			if err != nil {
				t.Fatalf("View: %v", err)
			}
			if len(farmers) != 1 || farmers[0].Name != "Ana" {
				t.Errorf("unexpected farmers: %+v", farmers)
			}
			if len(customers) != 1 || customers[0].Name != "Bor" {
				t.Errorf("unexpected customers: %+v", customers)
			}
		})
	}
}

func TestUpdateFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	for name, d := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := d.Update(ctx, func(tx *Tx) error {
				return tx.Put(Orders, []entry{{ID: 1}})
			}); err != nil {
				t.Fatalf("Update: %v", err)
			}

			err := d.Update(ctx, func(tx *Tx) error {
				if err := tx.Put(Orders, []entry{{ID: 1}, {ID: 2}}); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}

			var orders []entry
			d.View(ctx, func(tx *Tx) error { return tx.Load(Orders, &orders) })
			if len(orders) != 1 {
				t.Errorf("expected 1 order after failed update, got %d", len(orders))
			}
		})
	}
}

func TestLoadSeesStagedWrites(t *testing.T) {
	d := NewMemory()
	ctx := context.Background()

	err := d.Update(ctx, func(tx *Tx) error {
		if err := tx.Put(Products, []entry{{ID: 7}}); err != nil {
			return err
		}
		var got []entry
		if err := tx.Load(Products, &got); err != nil {
			return err
		}
		if len(got) != 1 || got[0].ID != 7 {
			t.Errorf("expected staged product, got %+v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestLoadMissingCollection(t *testing.T) {
	d := NewTestDB(t)

	got := []entry{}
	err := d.View(context.Background(), func(tx *Tx) error {
		return tx.Load(Storages, &got)
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected untouched empty slice, got %#v", got)
	}
}

func TestViewIsReadOnly(t *testing.T) {
	d := NewMemory()

	err := d.View(context.Background(), func(tx *Tx) error {
		return tx.Put(Farmers, []entry{})
	})
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestSetAndGetRaw(t *testing.T) {
	d := NewTestDB(t)
	ctx := context.Background()

	if err := d.Set(ctx, Settings, []byte(`{"taxRate":0.2}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := d.Set(ctx, Settings, []byte(`{"taxRate":0.25}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	data, err := d.Get(ctx, Settings)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"taxRate":0.25}` {
		t.Errorf("unexpected payload %s", data)
	}

	missing, err := d.Get(ctx, "nothing")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing collection, got %s", missing)
	}
}

func TestPebbleReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	d, err := OpenPebble(dir)
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	if err := d.Set(ctx, Farmers, []byte(`[{"id":3,"name":"Cene"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	d.Close()

	d, err = OpenPebble(dir)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer d.Close()

	var farmers []entry
	d.View(ctx, func(tx *Tx) error { return tx.Load(Farmers, &farmers) })
	if len(farmers) != 1 || farmers[0].ID != 3 {
		t.Errorf("expected persisted farmer, got %+v", farmers)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "floppy"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpenMemoryMigrates(t *testing.T) {
	d, err := Open(context.Background(), Options{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	data, _ := d.Get(context.Background(), Meta)
	var m meta
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decoding meta: %v", err)
	}
	if m.SchemaVersion != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), m.SchemaVersion)
	}
}
