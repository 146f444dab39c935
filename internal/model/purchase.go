package model

import "time"

// Purchase is raw material bought from a farmer and put into a storage location.
type Purchase struct {
	ID         int64     `json:"id"`
	FarmerID   int64     `json:"farmerId"`
	StorageID  int64     `json:"storageId"`
	Date       time.Time `json:"date"`
	QuantityKg float64   `json:"quantityKg"`
	PricePerKg float64   `json:"pricePerKg"`
	TotalCost  float64   `json:"totalCost"`
}

// PurchaseUpdate holds the optional fields of a purchase update.
// QuantityKg exists only so that an attempted quantity change can be rejected.
type PurchaseUpdate struct {
	FarmerID   *int64   `json:"farmerId,omitempty"`
	StorageID  *int64   `json:"storageId,omitempty"`
	Date       *string  `json:"date,omitempty"`
	PricePerKg *float64 `json:"pricePerKg,omitempty"`
	QuantityKg *float64 `json:"quantityKg,omitempty"`
}

// Accepted purchase date layouts.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate parses a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
