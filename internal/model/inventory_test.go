package model

import "testing"

func TestInventoryEntryStatus(t *testing.T) {
	tests := []struct {
		entry   InventoryEntry
		status  string
		restock bool
	}{
		{InventoryEntry{Type: SourceProcessed, QuantityUnits: 5, ReorderLevel: 5}, LevelLow, true},
		{InventoryEntry{Type: SourceProcessed, QuantityUnits: 10, ReorderLevel: 5}, LevelMedium, false},
		{InventoryEntry{Type: SourceProcessed, QuantityUnits: 11, ReorderLevel: 5}, LevelSufficient, false},
		// Raw entries are measured by weight, not units.
		{InventoryEntry{Type: SourceRaw, QuantityUnits: 100, TotalWeightKg: 2, ReorderLevel: 4}, LevelLow, true},
		{InventoryEntry{Type: SourceRaw, TotalWeightKg: 20, ReorderLevel: 4}, LevelSufficient, false},
	}

	for i, tt := range tests {
		if got := tt.entry.Status(); got != tt.status {
			t.Errorf("case %d: Status() = %q, want %q", i, got, tt.status)
		}
		if got := tt.entry.NeedsRestock(); got != tt.restock {
			t.Errorf("case %d: NeedsRestock() = %v, want %v", i, got, tt.restock)
		}
	}
}
