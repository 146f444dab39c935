package store

import (
	"context"
	"errors"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// PurchaseInput holds the fields of a new purchase.
type PurchaseInput struct {
	FarmerID   int64   `json:"farmerId"`
	StorageID  int64   `json:"storageId"`
	Date       string  `json:"date"`
	QuantityKg float64 `json:"quantityKg"`
	PricePerKg float64 `json:"pricePerKg"`
}

// RecordPurchase stores raw material bought from a farmer in a storage location.
func RecordPurchase(ctx context.Context, database *db.DB, in PurchaseInput) (*model.Purchase, error) {
	date, ok := model.ParseDate(in.Date)
	if !ok {
		return nil, ledger.Invalid("date", "must be YYYY-MM-DD or RFC 3339")
	}
	if in.QuantityKg <= 0 {
		return nil, ledger.Invalid("quantityKg", "must be positive")
	}
	if in.PricePerKg <= 0 {
		return nil, ledger.Invalid("pricePerKg", "must be positive")
	}

	var created model.Purchase
	err := database.Update(ctx, func(tx *db.Tx) error {
		if err := requireFarmer(tx, in.FarmerID); err != nil {
			return err
		}
		purchases, err := loadAll[model.Purchase](tx, db.Purchases)
		if err != nil {
			return err
		}
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}

		p := model.Purchase{
			ID:         nextID(purchases, purchaseID),
			FarmerID:   in.FarmerID,
			StorageID:  in.StorageID,
			Date:       date,
			QuantityKg: in.QuantityKg,
			PricePerKg: in.PricePerKg,
			TotalCost:  cents(in.QuantityKg, in.PricePerKg),
		}
		if err := l.CreditRaw(p.StorageID, p.ID, p.QuantityKg); err != nil {
			return err
		}

		created = p
		if err := tx.Put(db.Purchases, append(purchases, p)); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetPurchase returns a purchase by ID.
func GetPurchase(ctx context.Context, database *db.DB, id int64) (*model.Purchase, error) {
	var found *model.Purchase
	err := database.View(ctx, func(tx *db.Tx) error {
		purchases, err := loadAll[model.Purchase](tx, db.Purchases)
		if err != nil {
			return err
		}
		i := indexOf(purchases, purchaseID, id)
		if i < 0 {
			return ledger.NotFound("purchase", id)
		}
		found = &purchases[i]
		return nil
	})
	return found, err
}

// ListPurchases returns all purchases, optionally only those of one farmer.
func ListPurchases(ctx context.Context, database *db.DB, farmer int64) ([]model.Purchase, error) {
	var out []model.Purchase
	err := database.View(ctx, func(tx *db.Tx) error {
		purchases, err := loadAll[model.Purchase](tx, db.Purchases)
		if err != nil {
			return err
		}
		if farmer == 0 {
			out = purchases
			return nil
		}
		out = []model.Purchase{}
		for _, p := range purchases {
			if p.FarmerID == farmer {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// UpdatePurchase changes a purchase's farmer, storage, date or price. The
// quantity of a purchase cannot change. Moving a purchase to another storage
// moves whatever remains of its raw material there.
func UpdatePurchase(ctx context.Context, database *db.DB, id int64, upd model.PurchaseUpdate) (*model.Purchase, error) {
	if upd.QuantityKg != nil {
		return nil, ledger.Invalid("quantityKg", "purchase quantity cannot be changed")
	}
	if upd.PricePerKg != nil && *upd.PricePerKg <= 0 {
		return nil, ledger.Invalid("pricePerKg", "must be positive")
	}

	var updated model.Purchase
	err := database.Update(ctx, func(tx *db.Tx) error {
		purchases, err := loadAll[model.Purchase](tx, db.Purchases)
		if err != nil {
			return err
		}
		i := indexOf(purchases, purchaseID, id)
		if i < 0 {
			return ledger.NotFound("purchase", id)
		}
		p := purchases[i]

		if upd.FarmerID != nil {
			if err := requireFarmer(tx, *upd.FarmerID); err != nil {
				return err
			}
			p.FarmerID = *upd.FarmerID
		}
		if upd.Date != nil {
			date, ok := model.ParseDate(*upd.Date)
			if !ok {
				return ledger.Invalid("date", "must be YYYY-MM-DD or RFC 3339")
			}
			p.Date = date
		}
		if upd.PricePerKg != nil {
			p.PricePerKg = *upd.PricePerKg
			p.TotalCost = cents(p.QuantityKg, p.PricePerKg)
		}

		if upd.StorageID != nil && *upd.StorageID != p.StorageID {
			l, err := loadLedger(tx)
			if err != nil {
				return err
			}
			if _, err := l.Storage(*upd.StorageID); err != nil {
				return err
			}
			if _, err := l.MoveRaw(p.StorageID, *upd.StorageID, p.ID); err != nil && !errors.Is(err, ledger.ErrNotFound) {
				return err
			}
			p.StorageID = *upd.StorageID
			if err := saveLedger(tx, l); err != nil {
				return err
			}
		}

		purchases[i] = p
		updated = p
		return tx.Put(db.Purchases, purchases)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePurchase removes a purchase and whatever remains of its raw material.
// Raw material already used in production stays consumed.
func DeletePurchase(ctx context.Context, database *db.DB, id int64) (float64, error) {
	var removed float64
	err := database.Update(ctx, func(tx *db.Tx) error {
		purchases, err := loadAll[model.Purchase](tx, db.Purchases)
		if err != nil {
			return err
		}
		i := indexOf(purchases, purchaseID, id)
		if i < 0 {
			return ledger.NotFound("purchase", id)
		}
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}

		// The storage may be gone once the purchase was fully consumed.
		removed, err = l.RemoveRaw(purchases[i].StorageID, id)
		if err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return err
		}

		purchases = append(purchases[:i], purchases[i+1:]...)
		if err := tx.Put(db.Purchases, purchases); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
	return removed, err
}

func requireFarmer(tx *db.Tx, id int64) error {
	farmers, err := loadAll[model.Farmer](tx, db.Farmers)
	if err != nil {
		return err
	}
	if indexOf(farmers, farmerID, id) < 0 {
		return ledger.NotFound("farmer", id)
	}
	return nil
}
