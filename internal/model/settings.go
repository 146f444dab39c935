package model

// Settings are business-wide parameters.
type Settings struct {
	TaxRate float64 `json:"taxRate"`
}

// DefaultTaxRate is applied to income when no rate has been configured.
const DefaultTaxRate = 0.18

// DefaultSettings returns the settings used before any are saved.
func DefaultSettings() Settings {
	return Settings{TaxRate: DefaultTaxRate}
}
