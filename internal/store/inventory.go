package store

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// TransferInput holds the fields of an inventory transfer. Quantity is kg for
// RAW entries and units for PROCESSED entries.
type TransferInput struct {
	Type      model.SourceType `json:"type"`
	ProductID int64            `json:"productId,omitempty"`
	Quantity  float64          `json:"quantity"`
	StorageID int64            `json:"storageId"`
}

// TransferToInventory records a monitored inventory entry. The quantity must be
// available, but nothing is moved: entries never gate production or orders.
func TransferToInventory(ctx context.Context, database *db.DB, in TransferInput) (*model.InventoryEntry, error) {
	if in.Quantity <= 0 {
		return nil, ledger.Invalid("quantity", "must be positive")
	}

	var created model.InventoryEntry
	err := database.Update(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		if _, err := l.Storage(in.StorageID); err != nil {
			return err
		}

		e := model.InventoryEntry{
			StorageID:    in.StorageID,
			Type:         in.Type,
			ReorderLevel: in.Quantity / 2,
			RestockDate:  now(),
			LastUpdated:  now(),
		}

		switch in.Type {
		case model.SourceRaw:
			if err := requireRaw(l, in.StorageID, in.Quantity); err != nil {
				return err
			}
			e.Category = string(model.SourceRaw)
			e.TotalWeightKg = in.Quantity
		case model.SourceProcessed:
			units, err := wholeUnits(in.Quantity)
			if err != nil {
				return err
			}
			p, err := findProduct(tx, in.ProductID)
			if err != nil {
				return err
			}
			if p.QuantityUnits < units {
				return &ledger.InsufficientStockError{Requested: units, Available: p.QuantityUnits}
			}
			e.Category = string(p.Category)
			e.ProductID = p.ID
			e.QuantityUnits = units
			e.TotalWeightKg, _ = requiredKg(p.UnitWeightGrams, units).Float64()
		default:
			return ledger.Invalid("type", fmt.Sprintf("unknown source type %q", in.Type))
		}

		entries, err := loadAll[model.InventoryEntry](tx, db.Inventory)
		if err != nil {
			return err
		}
		e.ID = nextID(entries, inventoryID)
		created = e
		return tx.Put(db.Inventory, append(entries, e))
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInventoryEntry changes an entry's quantity or reorder level. Any
// increase in quantity must still be available at the source.
func UpdateInventoryEntry(ctx context.Context, database *db.DB, id int64, upd model.InventoryUpdate) (*model.InventoryEntry, error) {
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, ledger.Invalid("quantity", "must not be negative")
	}
	if upd.ReorderLevel != nil && *upd.ReorderLevel < 0 {
		return nil, ledger.Invalid("reorderLevel", "must not be negative")
	}

	var updated model.InventoryEntry
	err := database.Update(ctx, func(tx *db.Tx) error {
		entries, err := loadAll[model.InventoryEntry](tx, db.Inventory)
		if err != nil {
			return err
		}
		i := indexOf(entries, inventoryID, id)
		if i < 0 {
			return ledger.NotFound("inventory entry", id)
		}
		e := entries[i]

		if upd.Quantity != nil {
			extra := *upd.Quantity - e.Level()
			if e.Type == model.SourceRaw {
				if extra > 0 {
					l, err := loadLedger(tx)
					if err != nil {
						return err
					}
					if err := requireRaw(l, e.StorageID, extra); err != nil {
						return err
					}
				}
				e.TotalWeightKg = *upd.Quantity
			} else {
				units, err := wholeUnits(*upd.Quantity)
				if err != nil {
					return err
				}
				p, err := findProduct(tx, e.ProductID)
				if err != nil {
					return err
				}
				if add := units - e.QuantityUnits; add > p.QuantityUnits {
					return &ledger.InsufficientStockError{Requested: add, Available: p.QuantityUnits}
				}
				e.QuantityUnits = units
				e.TotalWeightKg, _ = requiredKg(p.UnitWeightGrams, units).Float64()
			}
		}
		if upd.ReorderLevel != nil {
			e.ReorderLevel = *upd.ReorderLevel
		}
		e.LastUpdated = now()

		entries[i] = e
		updated = e
		return tx.Put(db.Inventory, entries)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteInventoryEntry removes an inventory entry.
func DeleteInventoryEntry(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		entries, err := loadAll[model.InventoryEntry](tx, db.Inventory)
		if err != nil {
			return err
		}
		i := indexOf(entries, inventoryID, id)
		if i < 0 {
			return ledger.NotFound("inventory entry", id)
		}
		entries = append(entries[:i], entries[i+1:]...)
		return tx.Put(db.Inventory, entries)
	})
}

// ListInventory returns all inventory entries.
func ListInventory(ctx context.Context, database *db.DB) ([]model.InventoryEntry, error) {
	var entries []model.InventoryEntry
	err := database.View(ctx, func(tx *db.Tx) error {
		var err error
		entries, err = loadAll[model.InventoryEntry](tx, db.Inventory)
		return err
	})
	return entries, err
}

// InventoryStatus returns every entry with its stock level and restock flag.
func InventoryStatus(ctx context.Context, database *db.DB) ([]model.InventoryStatus, error) {
	entries, err := ListInventory(ctx, database)
	if err != nil {
		return nil, err
	}
	out := make([]model.InventoryStatus, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.InventoryStatus{
			InventoryEntry: e,
			Status:         e.Status(),
			NeedsRestock:   e.NeedsRestock(),
		})
	}
	return out, nil
}

func requireRaw(l *ledger.Ledger, storageID int64, kg float64) error {
	have, err := l.RawIn(storageID)
	if err != nil {
		return err
	}
	if decimal.NewFromFloat(have).LessThan(decimal.NewFromFloat(kg)) {
		return &ledger.InsufficientRawMaterialError{Requested: kg, Available: have}
	}
	return nil
}

func findProduct(tx *db.Tx, id int64) (*model.Product, error) {
	products, err := loadAll[model.Product](tx, db.Products)
	if err != nil {
		return nil, err
	}
	i := indexOf(products, productID, id)
	if i < 0 {
		return nil, ledger.NotFound("product", id)
	}
	return &products[i], nil
}

func wholeUnits(q float64) (int, error) {
	if q != math.Trunc(q) {
		return 0, ledger.Invalid("quantity", "processed quantity must be a whole number of units")
	}
	return int(q), nil
}
