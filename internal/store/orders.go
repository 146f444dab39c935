package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// now is the clock used to stamp new records.
var now = func() time.Time { return time.Now().UTC() }

// PlaceOrder sells units of a product to a customer. Stock and storage are
// debited together; the order starts out PENDING.
func PlaceOrder(ctx context.Context, database *db.DB, customer, product int64, units int) (*model.Order, error) {
	if units <= 0 {
		return nil, ledger.Invalid("quantityUnits", "must be positive")
	}

	var created model.Order
	err := database.Update(ctx, func(tx *db.Tx) error {
		customers, err := loadAll[model.Customer](tx, db.Customers)
		if err != nil {
			return err
		}
		if indexOf(customers, customerID, customer) < 0 {
			return ledger.NotFound("customer", customer)
		}
		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		pi := indexOf(products, productID, product)
		if pi < 0 {
			return ledger.NotFound("product", product)
		}
		p := &products[pi]
		if p.QuantityUnits < units {
			return &ledger.InsufficientStockError{Requested: units, Available: p.QuantityUnits}
		}

		l, err := loadLedger(tx)
		if err != nil {
			return err
		}
		if err := l.DebitProcessed(p.StorageID, p.ID, units); err != nil {
			return err
		}
		p.QuantityUnits -= units

		orders, err := loadAll[model.Order](tx, db.Orders)
		if err != nil {
			return err
		}
		created = model.Order{
			ID:              nextID(orders, orderID),
			CustomerID:      customer,
			ProductID:       p.ID,
			ProductCategory: p.Category,
			QuantityUnits:   units,
			UnitPrice:       p.Price,
			TotalPrice:      cents(float64(units), p.Price),
			Status:          model.OrderPending,
			OrderDate:       now(),
		}

		if err := tx.Put(db.Orders, append(orders, created)); err != nil {
			return err
		}
		if err := tx.Put(db.Products, products); err != nil {
			return err
		}
		return saveLedger(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrder returns an order by ID.
func GetOrder(ctx context.Context, database *db.DB, id int64) (*model.Order, error) {
	var found *model.Order
	err := database.View(ctx, func(tx *db.Tx) error {
		orders, err := loadAll[model.Order](tx, db.Orders)
		if err != nil {
			return err
		}
		i := indexOf(orders, orderID, id)
		if i < 0 {
			return ledger.NotFound("order", id)
		}
		found = &orders[i]
		return nil
	})
	return found, err
}

// OrderFilter narrows ListOrders. Zero fields match everything.
type OrderFilter struct {
	Status     model.OrderStatus
	CustomerID int64
}

// ListOrders returns the orders matching the filter.
func ListOrders(ctx context.Context, database *db.DB, f OrderFilter) ([]model.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ledger.Invalid("status", fmt.Sprintf("unknown order status %q", f.Status))
	}

	out := []model.Order{}
	err := database.View(ctx, func(tx *db.Tx) error {
		orders, err := loadAll[model.Order](tx, db.Orders)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
				continue
			}
			out = append(out, o)
		}
		return nil
	})
	return out, err
}

// UpdateOrder changes an order's quantity or status. A quantity change moves
// the difference between stock and the order; status only moves forward one
// step at a time.
func UpdateOrder(ctx context.Context, database *db.DB, id int64, upd model.OrderUpdate) (*model.Order, error) {
	if upd.QuantityUnits != nil && *upd.QuantityUnits <= 0 {
		return nil, ledger.Invalid("quantityUnits", "must be positive")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ledger.Invalid("status", fmt.Sprintf("unknown order status %q", *upd.Status))
	}

	var updated model.Order
	err := database.Update(ctx, func(tx *db.Tx) error {
		orders, err := loadAll[model.Order](tx, db.Orders)
		if err != nil {
			return err
		}
		i := indexOf(orders, orderID, id)
		if i < 0 {
			return ledger.NotFound("order", id)
		}
		o := orders[i]

		if upd.Status != nil {
			if !model.CanTransition(o.Status, *upd.Status) {
				return ledger.Invalid("status", fmt.Sprintf("cannot move from %s to %s", o.Status, *upd.Status))
			}
			o.Status = *upd.Status
		}

		if upd.QuantityUnits != nil && *upd.QuantityUnits != o.QuantityUnits {
			products, err := loadAll[model.Product](tx, db.Products)
			if err != nil {
				return err
			}
			pi := indexOf(products, productID, o.ProductID)
			if pi < 0 {
				return ledger.NotFound("product", o.ProductID)
			}
			l, err := loadLedger(tx)
			if err != nil {
				return err
			}
			if err := shiftStock(l, &products[pi], *upd.QuantityUnits-o.QuantityUnits); err != nil {
				return err
			}
			o.QuantityUnits = *upd.QuantityUnits
			o.TotalPrice = cents(float64(o.QuantityUnits), o.UnitPrice)

			if err := tx.Put(db.Products, products); err != nil {
				return err
			}
			if err := saveLedger(tx, l); err != nil {
				return err
			}
		}

		orders[i] = o
		updated = o
		return tx.Put(db.Orders, orders)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOrder removes an order and returns its units to stock. An order whose
// product no longer exists is removed without restocking.
func DeleteOrder(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		orders, err := loadAll[model.Order](tx, db.Orders)
		if err != nil {
			return err
		}
		i := indexOf(orders, orderID, id)
		if i < 0 {
			return ledger.NotFound("order", id)
		}
		o := orders[i]

		products, err := loadAll[model.Product](tx, db.Products)
		if err != nil {
			return err
		}
		if pi := indexOf(products, productID, o.ProductID); pi >= 0 {
			l, err := loadLedger(tx)
			if err != nil {
				return err
			}
			if err := shiftStock(l, &products[pi], -o.QuantityUnits); err != nil {
				return err
			}
			if err := tx.Put(db.Products, products); err != nil {
				return err
			}
			if err := saveLedger(tx, l); err != nil {
				return err
			}
		}

		orders = append(orders[:i], orders[i+1:]...)
		return tx.Put(db.Orders, orders)
	})
}

// shiftStock moves delta units from a product's stock into an order. A
// negative delta returns units to stock and storage.
func shiftStock(l *ledger.Ledger, p *model.Product, delta int) error {
	switch {
	case delta > 0:
		if p.QuantityUnits < delta {
			return &ledger.InsufficientStockError{Requested: delta, Available: p.QuantityUnits}
		}
		if err := l.DebitProcessed(p.StorageID, p.ID, delta); err != nil {
			return err
		}
	case delta < 0:
		units := -delta
		kg, _ := requiredKg(p.UnitWeightGrams, units).Float64()
		if err := l.CreditProcessed(p.StorageID, p.ID, units, kg); err != nil {
			return err
		}
	}
	p.QuantityUnits -= delta
	return nil
}
