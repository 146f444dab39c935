package store

import (
	"context"
	"strings"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// CreateCustomer adds a customer. Same name and phone as an existing customer
// is rejected.
func CreateCustomer(ctx context.Context, database *db.DB, c model.Customer) (*model.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}

	var created model.Customer
	err := database.Update(ctx, func(tx *db.Tx) error {
		customers, err := loadAll[model.Customer](tx, db.Customers)
		if err != nil {
			return err
		}
		for _, other := range customers {
			if sameCustomer(other, c) {
				return &ledger.DuplicateRecordError{Entity: "customer", ID: other.ID}
			}
		}

		c.ID = nextID(customers, customerID)
		customers = append(customers, c)
		created = c
		return tx.Put(db.Customers, customers)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetCustomer returns a customer by ID.
func GetCustomer(ctx context.Context, database *db.DB, id int64) (*model.Customer, error) {
	var found *model.Customer
	err := database.View(ctx, func(tx *db.Tx) error {
		customers, err := loadAll[model.Customer](tx, db.Customers)
		if err != nil {
			return err
		}
		i := indexOf(customers, customerID, id)
		if i < 0 {
			return ledger.NotFound("customer", id)
		}
		found = &customers[i]
		return nil
	})
	return found, err
}

// ListCustomers returns all customers.
func ListCustomers(ctx context.Context, database *db.DB) ([]model.Customer, error) {
	var customers []model.Customer
	err := database.View(ctx, func(tx *db.Tx) error {
		var err error
		customers, err = loadAll[model.Customer](tx, db.Customers)
		return err
	})
	return customers, err
}

// UpdateCustomer replaces a customer's details.
func UpdateCustomer(ctx context.Context, database *db.DB, id int64, c model.Customer) (*model.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}

	var updated model.Customer
	err := database.Update(ctx, func(tx *db.Tx) error {
		customers, err := loadAll[model.Customer](tx, db.Customers)
		if err != nil {
			return err
		}
		i := indexOf(customers, customerID, id)
		if i < 0 {
			return ledger.NotFound("customer", id)
		}
		for _, other := range customers {
			if other.ID != id && sameCustomer(other, c) {
				return &ledger.DuplicateRecordError{Entity: "customer", ID: other.ID}
			}
		}

		c.ID = id
		customers[i] = c
		updated = c
		return tx.Put(db.Customers, customers)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCustomer removes a customer. Their orders are kept.
func DeleteCustomer(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		customers, err := loadAll[model.Customer](tx, db.Customers)
		if err != nil {
			return err
		}
		i := indexOf(customers, customerID, id)
		if i < 0 {
			return ledger.NotFound("customer", id)
		}
		customers = append(customers[:i], customers[i+1:]...)
		return tx.Put(db.Customers, customers)
	})
}

func sameCustomer(a, b model.Customer) bool {
	return sameText(a.Name, b.Name) && sameText(a.Contact.Phone, b.Contact.Phone)
}
