package model

// Product is a batch of packaged units manufactured from raw material.
type Product struct {
	ID              int64    `json:"id"`
	Category        Category `json:"category"`
	Type            Type     `json:"type"`
	Price           float64  `json:"price"`
	UnitWeightGrams float64  `json:"unitWeightGrams"`
	QuantityUnits   int      `json:"quantityUnits"`
	StorageID       int64    `json:"storageId"`
}

// ProductUpdate holds the optional fields of a product update.
type ProductUpdate struct {
	Price         *float64 `json:"price,omitempty"`
	QuantityUnits *int     `json:"quantityUnits,omitempty"`
}

// Category is a package size.
type Category string

// Product categories.
const (
	CategorySmall      Category = "SMALL"
	CategoryMedium     Category = "MEDIUM"
	CategoryLarge      Category = "LARGE"
	CategoryExtraLarge Category = "EXTRA_LARGE"
	CategoryFamilyPack Category = "FAMILY_PACK"
	CategoryBulkPack   Category = "BULK_PACK"
	CategoryPremium    Category = "PREMIUM"
)

// categoryWeights are the standard unit weights in grams. PREMIUM has none.
var categoryWeights = map[Category]float64{
	CategorySmall:      100,
	CategoryMedium:     250,
	CategoryLarge:      500,
	CategoryExtraLarge: 1000,
	CategoryFamilyPack: 2000,
	CategoryBulkPack:   5000,
}

// Categories lists every category in size order.
var Categories = []Category{
	CategorySmall, CategoryMedium, CategoryLarge, CategoryExtraLarge,
	CategoryFamilyPack, CategoryBulkPack, CategoryPremium,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	if c == CategoryPremium {
		return true
	}
	_, ok := categoryWeights[c]
	return ok
}

// StandardWeight returns the fixed unit weight of c in grams.
// It returns false for PREMIUM and for unknown categories.
func (c Category) StandardWeight() (float64, bool) {
	w, ok := categoryWeights[c]
	return w, ok
}

// Type is the kind of produce a product is made of.
type Type string

// Product types.
const (
	TypeRaw     Type = "RAW"
	TypeFrozen  Type = "FROZEN"
	TypeFresh   Type = "FRESH"
	TypeOrganic Type = "ORGANIC"
)

// Valid reports whether t is a known product type.
func (t Type) Valid() bool {
	switch t {
	case TypeRaw, TypeFrozen, TypeFresh, TypeOrganic:
		return true
	}
	return false
}

// Stock levels reported by StockStatus.
const (
	StockLow    = "low"
	StockMedium = "medium"
	StockHigh   = "high"
)

// StockStatus classifies the remaining units of a product.
func (p Product) StockStatus() string {
	switch {
	case p.QuantityUnits <= 100:
		return StockLow
	case p.QuantityUnits <= 250:
		return StockMedium
	}
	return StockHigh
}

// TotalWeightKg is the mass of all remaining units.
func (p Product) TotalWeightKg() float64 {
	return p.UnitWeightGrams * float64(p.QuantityUnits) / 1000
}
