package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// CreateStorage adds an empty storage location.
func CreateStorage(ctx context.Context, database *db.DB, name, location string, maxCapacity float64) (*model.StorageLocation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}

	var created model.StorageLocation
	err := database.Update(ctx, func(tx *db.Tx) error {
		storages, err := loadAll[model.StorageLocation](tx, db.Storages)
		if err != nil {
			return err
		}
		for _, s := range storages {
			if sameText(s.Name, name) && sameText(s.Location, location) {
				return &ledger.DuplicateRecordError{Entity: "storage", ID: s.ID}
			}
		}

		l := ledger.New(storages)
		id := nextID(storages, func(s model.StorageLocation) int64 { return s.ID })
		s := model.StorageLocation{ID: id, Name: name, Location: location, MaxCapacity: maxCapacity}
		if err := l.AddStorage(s); err != nil {
			return err
		}
		created, _ = l.Storage(id)
		return saveLedger(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetStorage returns a storage location by ID.
func GetStorage(ctx context.Context, database *db.DB, id int64) (*model.StorageLocation, error) {
	var found model.StorageLocation
	err := database.View(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		found, err = l.Storage(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// ListStorages returns all storage locations.
func ListStorages(ctx context.Context, database *db.DB) ([]model.StorageLocation, error) {
	var storages []model.StorageLocation
	err := database.View(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		storages = l.Storages()
		return nil
	})
	return storages, err
}

// UpdateStorage changes a location's name, address and maximum capacity. The
// new maximum may not be below what the location currently holds.
func UpdateStorage(ctx context.Context, database *db.DB, id int64, name, location string, maxCapacity float64) (*model.StorageLocation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}

	var updated model.StorageLocation
	err := database.Update(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		for _, s := range l.Storages() {
			if s.ID != id && sameText(s.Name, name) && sameText(s.Location, location) {
				return &ledger.DuplicateRecordError{Entity: "storage", ID: s.ID}
			}
		}
		if err := l.UpdateStorage(id, name, location, maxCapacity); err != nil {
			return err
		}
		updated, _ = l.Storage(id)
		return saveLedger(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStorage removes an empty storage location. A location that is still
// the home of a product cannot be removed, even when none of its units are left.
func DeleteStorage(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.StorageID == id {
				return ledger.Invalid("storage", fmt.Sprintf("storage is the home of product %d", p.ID))
			}
		}
		if err := l.RemoveStorage(id); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
}

// RawPool describes the raw material held across all locations.
type RawPool struct {
	TotalKg   float64           `json:"totalKg"`
	Breakdown []ledger.RawShare `json:"breakdown"`
}

// GetRawPool returns the system-wide raw material total and its breakdown by location.
func GetRawPool(ctx context.Context, database *db.DB) (*RawPool, error) {
	var pool RawPool
	err := database.View(ctx, func(tx *db.Tx) error {
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		pool.TotalKg = l.RawTotal()
		pool.Breakdown = l.RawBreakdown()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}
