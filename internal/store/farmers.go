package store

import (
	"context"
	"strings"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// CreateFarmer adds a farmer. A farmer with the same name and contact details
// already on record is rejected.
func CreateFarmer(ctx context.Context, database *db.DB, f model.Farmer) (*model.Farmer, error) {
	if err := validateFarmer(f); err != nil {
		return nil, err
	}

	var created model.Farmer
	err := database.Update(ctx, func(tx *db.Tx) error {
		farmers, err := loadAll[model.Farmer](tx, db.Farmers)
		if err != nil {
			return err
		}
		for _, other := range farmers {
			if sameFarmer(other, f) {
				return &ledger.DuplicateRecordError{Entity: "farmer", ID: other.ID}
			}
		}

		f.ID = nextID(farmers, farmerID)
		farmers = append(farmers, f)
		created = f
		return tx.Put(db.Farmers, farmers)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetFarmer returns a farmer by ID.
func GetFarmer(ctx context.Context, database *db.DB, id int64) (*model.Farmer, error) {
	var found *model.Farmer
	err := database.View(ctx, func(tx *db.Tx) error {
		farmers, err := loadAll[model.Farmer](tx, db.Farmers)
		if err != nil {
			return err
		}
		i := indexOf(farmers, farmerID, id)
		if i < 0 {
			return ledger.NotFound("farmer", id)
		}
		found = &farmers[i]
		return nil
	})
	return found, err
}

// ListFarmers returns all farmers.
func ListFarmers(ctx context.Context, database *db.DB) ([]model.Farmer, error) {
	var farmers []model.Farmer
	err := database.View(ctx, func(tx *db.Tx) error {
		var err error
		farmers, err = loadAll[model.Farmer](tx, db.Farmers)
		return err
	})
	return farmers, err
}

// SearchFarmers returns farmers whose name or city contains the query.
func SearchFarmers(ctx context.Context, database *db.DB, query string) ([]model.Farmer, error) {
	farmers, err := ListFarmers(ctx, database)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	matches := []model.Farmer{}
	for _, f := range farmers {
		if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Location.City), q) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// UpdateFarmer replaces a farmer's details.
func UpdateFarmer(ctx context.Context, database *db.DB, id int64, f model.Farmer) (*model.Farmer, error) {
	if err := validateFarmer(f); err != nil {
		return nil, err
	}

	var updated model.Farmer
	err := database.Update(ctx, func(tx *db.Tx) error {
		farmers, err := loadAll[model.Farmer](tx, db.Farmers)
		if err != nil {
			return err
		}
		i := indexOf(farmers, farmerID, id)
		if i < 0 {
			return ledger.NotFound("farmer", id)
		}
		for _, other := range farmers {
			if other.ID != id && sameFarmer(other, f) {
				return &ledger.DuplicateRecordError{Entity: "farmer", ID: other.ID}
			}
		}

		f.ID = id
		farmers[i] = f
		updated = f
		return tx.Put(db.Farmers, farmers)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFarmer removes a farmer. Their purchases are kept.
func DeleteFarmer(ctx context.Context, database *db.DB, id int64) error {
	return database.Update(ctx, func(tx *db.Tx) error {
		farmers, err := loadAll[model.Farmer](tx, db.Farmers)
		if err != nil {
			return err
		}
		i := indexOf(farmers, farmerID, id)
		if i < 0 {
			return ledger.NotFound("farmer", id)
		}
		farmers = append(farmers[:i], farmers[i+1:]...)
		return tx.Put(db.Farmers, farmers)
	})
}

func validateFarmer(f model.Farmer) error {
	if strings.TrimSpace(f.Name) == "" {
		return ledger.Invalid("name", "is required")
	}
	return nil
}

func sameFarmer(a, b model.Farmer) bool {
	return sameText(a.Name, b.Name) &&
		sameText(a.Contact.Phone, b.Contact.Phone) &&
		sameText(a.Contact.Email, b.Contact.Email)
}
