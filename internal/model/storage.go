package model

// StorageLocation is a physical container holding raw material and processed products.
// Capacities are in kilograms. Contents are only changed through the ledger package,
// which keeps CurrentCapacity equal to the sum of the contents.
type StorageLocation struct {
	ID              int64           `json:"id"`
	Location        string          `json:"location"`
	Name            string          `json:"name"`
	MaxCapacity     float64         `json:"maxCapacity"`
	CurrentCapacity float64         `json:"currentCapacity"`
	RawItems        []RawItem       `json:"rawItems"`
	ProcessedItems  []ProcessedItem `json:"processedItems"`
}

// RawItem is the raw mass that remains in storage from one purchase.
type RawItem struct {
	PurchaseID int64   `json:"purchaseId"`
	QuantityKg float64 `json:"quantityKg"`
}

// ProcessedItem is the stored quantity of one product.
type ProcessedItem struct {
	ProductID     int64   `json:"productId"`
	QuantityUnits int     `json:"quantityUnits"`
	TotalWeightKg float64 `json:"totalWeightKg"`
}

// Clone returns a deep copy so callers never share content slices.
func (s StorageLocation) Clone() StorageLocation {
	c := s
	c.RawItems = append([]RawItem(nil), s.RawItems...)
	c.ProcessedItems = append([]ProcessedItem(nil), s.ProcessedItems...)
	if c.RawItems == nil {
		c.RawItems = []RawItem{}
	}
	if c.ProcessedItems == nil {
		c.ProcessedItems = []ProcessedItem{}
	}
	return c
}
