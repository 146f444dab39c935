package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// ProduceInput holds the fields of a production run.
type ProduceInput struct {
	Category      model.Category `json:"category"`
	Type          model.Type     `json:"type"`
	Price         float64        `json:"price"`
	QuantityUnits int            `json:"quantityUnits"`
	StorageID     int64          `json:"storageId"`
	// CustomWeightGrams is the unit weight of PREMIUM products.
	CustomWeightGrams float64 `json:"customWeightGrams,omitempty"`
}

// Produce packages raw material into a new product. The raw mass is taken from
// the oldest purchases across all storages and the packages are stored in the
// target storage.
func Produce(ctx context.Context, database *db.DB, in ProduceInput) (*model.Product, error) {
	weight, err := unitWeight(in.Category, in.CustomWeightGrams)
	if err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ledger.Invalid("type", fmt.Sprintf("unknown product type %q", in.Type))
	}
	if in.Price <= 0 {
		return nil, ledger.Invalid("price", "must be positive")
	}
	if in.QuantityUnits <= 0 {
		return nil, ledger.Invalid("quantityUnits", "must be positive")
	}

	var created model.Product
	err = database.Update(ctx, func(tx *db.Tx) error {
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.Category == in.Category && p.Type == in.Type && p.UnitWeightGrams == weight {
				return &ledger.DuplicateProductError{Category: string(p.Category), Type: string(p.Type), Weight: weight}
			}
		}

		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		p := model.Product{
			ID:              nextID(products, productID),
			Category:        in.Category,
			Type:            in.Type,
			Price:           in.Price,
			UnitWeightGrams: weight,
			QuantityUnits:   in.QuantityUnits,
			StorageID:       in.StorageID,
		}
		if err := manufacture(l, p.StorageID, p.ID, weight, in.QuantityUnits); err != nil {
			return err
		}

		created = p
		if err := tx.Put(db.Products, append(products, p)); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// manufacture consumes raw material for units packages of weightGrams each and
// stores them under productID in the target storage.
func manufacture(l *ledger.Ledger, storageID, productID int64, weightGrams float64, units int) error {
	required := requiredKg(weightGrams, units)
	requiredF, _ := required.Float64()

	avail, err := l.AvailableCapacity(storageID)
	if err != nil {
		return err
	}
	if decimal.NewFromFloat(avail).LessThan(required) {
		return &ledger.CapacityExceededError{StorageID: storageID, Requested: requiredF, Available: avail}
	}

	raw := decimal.NewFromFloat(l.RawTotal())
	if raw.LessThan(required) {
		rawF, _ := raw.Float64()
		return &ledger.InsufficientRawMaterialError{
			Requested:     requiredF,
			Available:     rawF,
			MaxProducible: int(raw.Mul(decimal.NewFromInt(1000)).Div(decimal.NewFromFloat(weightGrams)).Floor().IntPart()),
			Production:    true,
		}
	}

	if _, err := l.DebitRawAcross(requiredF); err != nil {
		return err
	}
	return l.CreditProcessed(storageID, productID, units, requiredF)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, database *db.DB, id int64) (*model.Product, error) {
	var found *model.Product
	err := database.View(ctx, func(tx *db.Tx) error {
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		i := indexOf(products, productID, id)
		if i < 0 {
			return ledger.NotFound("product", id)
		}
		found = &products[i]
		return nil
	})
	return found, err
}

// ListProducts returns all products.
func ListProducts(ctx context.Context, database *db.DB) ([]model.Product, error) {
	var products []model.Product
	err := database.View(ctx, func(tx *db.Tx) error {
		var err error
		products, err = loadAll[model.Product](tx, db.Products)
		return err
	})
	return products, err
}

// UpdateProduct changes a product's price or stock. More stock consumes raw
// material like a production run; less stock removes packages from storage
// without returning their raw material.
func UpdateProduct(ctx context.Context, database *db.DB, id int64, upd model.ProductUpdate) (*model.Product, error) {
	if upd.Price != nil && *upd.Price <= 0 {
		return nil, ledger.Invalid("price", "must be positive")
	}
	if upd.QuantityUnits != nil && *upd.QuantityUnits < 0 {
		return nil, ledger.Invalid("quantityUnits", "must not be negative")
	}

	var updated model.Product
	err := database.Update(ctx, func(tx *db.Tx) error {
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		i := indexOf(products, productID, id)
		if i < 0 {
			return ledger.NotFound("product", id)
		}
		p := products[i]

		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.QuantityUnits != nil && *upd.QuantityUnits != p.QuantityUnits {
			l, err := loadLedger(tx)
			if err != nil {
				return err
			}
			delta := *upd.QuantityUnits - p.QuantityUnits
			if delta > 0 {
				err = manufacture(l, p.StorageID, p.ID, p.UnitWeightGrams, delta)
			} else {
				err = l.DebitProcessed(p.StorageID, p.ID, -delta)
			}
			if err != nil {
				return err
			}
			p.QuantityUnits = *upd.QuantityUnits
			if err := saveLedger(tx, l); err != nil {
				return err
			}
		}

		products[i] = p
		updated = p
		return tx.Put(db.Products, products)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product and its packages from storage. The raw
// material used to make it is not recovered.
func DeleteProduct(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		i := indexOf(products, productID, id)
		if i < 0 {
			return ledger.NotFound("product", id)
		}
		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		if err := l.RemoveProcessed(products[i].StorageID, id); err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return err
		}

		products = append(products[:i], products[i+1:]...)
		if err := tx.Put(db.Products, products); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
}

func unitWeight(c model.Category, custom float64) (float64, error) {
	if !c.Valid() {
		return 0, ledger.Invalid("category", fmt.Sprintf("unknown product category %q", c))
	}
	if c == model.CategoryPremium {
		if custom <= 0 {
			return 0, ledger.Invalid("customWeightGrams", "required for PREMIUM products")
		}
		return custom, nil
	}
	w, _ := c.StandardWeight()
	return w, nil
}

func requiredKg(weightGrams float64, units int) decimal.Decimal {
	return decimal.NewFromFloat(weightGrams).
		Mul(decimal.NewFromInt(int64(units))).
		Div(decimal.NewFromInt(1000)).
		Round(6)
}
