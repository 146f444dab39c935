// Package store implements the ledger operations on top of db.DB. Every
// mutating function reads the collections it needs, computes the new state in
// memory and commits it in a single db.Update.
package store

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// loadAll returns every record of a collection. A missing collection is empty.
func loadAll[T any](tx *db.Tx, name string) ([]T, error) {
	out := []T{}
	if err := tx.Load(name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func loadLedger(tx *db.Tx) (*ledger.Ledger, error) {
	storages, err := loadAll[model.StorageLocation](tx, db.Storages)
	if err != nil {
		return nil, err
	}
	return ledger.New(storages), nil
}

func saveLedger(tx *db.Tx, l *ledger.Ledger) error {
	return tx.Put(db.Storages, l.Storages())
}

// nextID returns max(id)+1, or 1 for an empty collection.
func nextID[T any](records []T, id func(T) int64) int64 {
	var highest int64
	for _, r := range records {
		if v := id(r); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// indexOf returns the position of the record with the given id, or -1.
func indexOf[T any](records []T, id func(T) int64, want int64) int {
	for i, r := range records {
		if id(r) == want {
			return i
		}
	}
	return -1
}

func farmerID(f model.Farmer) int64 { return f.ID }
func customerID(c model.Customer) int64 { return c.ID }
func purchaseID(p model.Purchase) int64 { return p.ID }
func productID(p model.Product) int64 { return p.ID }
func orderID(o model.Order) int64 { return o.ID }
func inventoryID(e model.InventoryEntry) int64 { return e.ID }

// cents multiplies a quantity by a unit price and rounds to cents.
func cents(quantity, price float64) float64 {
	f, _ := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Round(2).Float64()
	return f
}

// sameText compares two strings ignoring case and surrounding whitespace.
func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
