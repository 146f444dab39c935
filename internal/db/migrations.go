package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// meta records store-wide bookkeeping.
type meta struct {
	SchemaVersion int `json:"schemaVersion"`
}

// record is a loosely typed collection entry used while rewriting old layouts.
type record = map[string]any

// migrations is a list of collection rewrites applied in order.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []func(tx *Tx) error{
	// Migration 1: Convert collections written by the browser version of the
	// ledger. Products lived under "processed_products", storages kept a nested
	// contents object and every quantity was stored as a bare "quantity".
	migrateLegacyLayout,
}

// Migrate applies every migration newer than the stored schema version.
func Migrate(ctx context.Context, d *DB) error {
	return d.Update(ctx, func(tx *Tx) error {
		var m meta
		if err := tx.Load(Meta, &m); err != nil {
			return err
		}
		if m.SchemaVersion >= len(migrations) {
			return nil
		}

		for i := m.SchemaVersion; i < len(migrations); i++ {
			if err := migrations[i](tx); err != nil {
				return fmt.Errorf("running migration %d: %w", i+1, err)
			}
		}

		m.SchemaVersion = len(migrations)
		return tx.Put(Meta, m)
	})
}

func migrateLegacyLayout(tx *Tx) error {
	var products []record
	if err := loadRecords(tx, Products, &products); err != nil {
		return err
	}
	if products == nil {
		var legacy []record
		if err := loadRecords(tx, "processed_products", &legacy); err != nil {
			return err
		}
		if legacy != nil {
			for _, p := range legacy {
				rename(p, "quantity", "quantityUnits")
				if p["weight"] == nil {
					p["weight"] = p["customWeight"]
				}
				rename(p, "weight", "unitWeightGrams")
				delete(p, "customWeight")
			}
			if err := tx.Put(Products, legacy); err != nil {
				return err
			}
		}
	}

	if err := rewrite(tx, Storages, func(s record) {
		contents, ok := s["contents"].(map[string]any)
		if !ok {
			return
		}
		raw, _ := contents["raw"].([]any)
		rawItems := make([]any, 0, len(raw))
		for _, it := range raw {
			if r, ok := it.(map[string]any); ok {
				rename(r, "quantity", "quantityKg")
				rawItems = append(rawItems, r)
			}
		}
		processed, _ := contents["processed"].([]any)
		processedItems := make([]any, 0, len(processed))
		for _, it := range processed {
			if p, ok := it.(map[string]any); ok {
				rename(p, "quantity", "quantityUnits")
				rename(p, "totalWeight", "totalWeightKg")
				processedItems = append(processedItems, p)
			}
		}
		s["rawItems"] = rawItems
		s["processedItems"] = processedItems
		delete(s, "contents")
	}); err != nil {
		return err
	}

	if err := rewrite(tx, Purchases, func(p record) {
		rename(p, "quantity", "quantityKg")
	}); err != nil {
		return err
	}

	if err := rewrite(tx, Orders, func(o record) {
		rename(o, "quantity", "quantityUnits")
	}); err != nil {
		return err
	}

	return rewrite(tx, Inventory, func(e record) {
		if e["type"] == "RAW" {
			rename(e, "quantity", "totalWeightKg")
		} else {
			rename(e, "quantity", "quantityUnits")
		}
		if _, ok := e["storageId"]; !ok {
			if src, ok := e["source"].(json.Number); ok {
				e["storageId"] = src
			}
		}
		delete(e, "source")
		delete(e, "storageLocation")
	})
}

// rewrite applies fn to every entry of a collection and stages the result.
// Missing collections are skipped.
func rewrite(tx *Tx, name string, fn func(record)) error {
	var recs []record
	if err := loadRecords(tx, name, &recs); err != nil {
		return err
	}
	if recs == nil {
		return nil
	}
	for _, r := range recs {
		fn(r)
	}
	return tx.Put(name, recs)
}

// loadRecords decodes a collection keeping numbers as json.Number so large
// identifiers survive the round trip unchanged.
func loadRecords(tx *Tx, name string, dst *[]record) error {
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
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// rename moves a key unless the new key is already present.
func rename(r record, from, to string) {
	v, ok := r[from]
	if !ok {
		return
	}
	if _, exists := r[to]; !exists {
		r[to] = v
	}
	delete(r, from)
}
