package model

import "time"

// InventoryEntry is a monitoring record for material earmarked for restock alerts.
// It is not the authoritative stock count; storages and products are.
type InventoryEntry struct {
	ID            int64      `json:"id"`
	StorageID     int64      `json:"storageId"`
	Type          SourceType `json:"type"`
	Category      string     `json:"category"`
	ProductID     int64      `json:"productId,omitempty"`
	QuantityUnits int        `json:"quantityUnits"`
	TotalWeightKg float64    `json:"totalWeightKg"`
	ReorderLevel  float64    `json:"reorderLevel"`
	RestockDate   time.Time  `json:"restockDate"`
	LastUpdated   time.Time  `json:"lastUpdated"`
}

// InventoryUpdate holds the optional fields of an inventory entry update.
type InventoryUpdate struct {
	Quantity     *float64 `json:"quantity,omitempty"`
	ReorderLevel *float64 `json:"reorderLevel,omitempty"`
}

// SourceType says where inventory material came from.
type SourceType string

// Inventory source types.
const (
	SourceRaw       SourceType = "RAW"
	SourceProcessed SourceType = "PROCESSED"
)

// Inventory levels.
const (
	LevelLow        = "LOW"
	LevelMedium     = "MEDIUM"
	LevelSufficient = "SUFFICIENT"
)

// Level is the monitored amount: kilograms for raw entries, units for processed ones.
func (e InventoryEntry) Level() float64 {
	if e.Type == SourceRaw {
		return e.TotalWeightKg
	}
	return float64(e.QuantityUnits)
}

// Status classifies the entry against its reorder level.
func (e InventoryEntry) Status() string {
	switch level := e.Level(); {
	case level <= e.ReorderLevel:
		return LevelLow
	case level <= e.ReorderLevel*2:
		return LevelMedium
	}
	return LevelSufficient
}

// NeedsRestock reports whether the entry is at or below its reorder level.
func (e InventoryEntry) NeedsRestock() bool {
	return e.Level() <= e.ReorderLevel
}

// InventoryStatus is an entry annotated with its current level.
type InventoryStatus struct {
	InventoryEntry
	Status       string `json:"status"`
	NeedsRestock bool   `json:"needsRestock"`
}
