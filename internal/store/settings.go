package store

import (
	"context"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// GetSettings returns the stored settings, or the defaults if none were saved.
func GetSettings(ctx context.Context, database *db.DB) (model.Settings, error) {
	s := model.DefaultSettings()
	err := database.View(ctx, func(tx *db.Tx) error {
		return tx.Load(db.Settings, &s)
	})
	return s, err
}

// SetTaxRate stores the tax rate applied to income in financial reports.
func SetTaxRate(ctx context.Context, database *db.DB, rate float64) (model.Settings, error) {
	if rate < 0 || rate >= 1 {
		return model.Settings{}, ledger.Invalid("taxRate", "must be in [0, 1)")
	}

	var saved model.Settings
	err := database.Update(ctx, func(tx *db.Tx) error {
		s := model.DefaultSettings()
		if err := tx.Load(db.Settings, &s); err != nil {
			return err
		}
		s.TaxRate = rate
		saved = s
		return tx.Put(db.Settings, s)
	})
	return saved, err
}
