package store

import (
	"context"
	"testing"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/model"
)

type fixture struct {
	db       *db.DB
	farmer   *model.Farmer
	customer *model.Customer
	storage  *model.StorageLocation
}

// newFixture sets up one farmer, one customer and an empty 100kg storage.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	f, err := CreateFarmer(ctx, database, model.Farmer{Name: "Janez Novak", Contact: model.Contact{Phone: "041 111 222"}})
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	c, err := CreateCustomer(ctx, database, model.Customer{Name: "Market d.o.o.", Contact: model.Contact{Phone: "01 555 000"}})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	s, err := CreateStorage(ctx, database, "Hall A", "Kranj", 100)
	if err != nil {
		t.Fatalf("CreateStorage: %v", err)
	}
	return &fixture{db: database, farmer: f, customer: c, storage: s}
}

func (fx *fixture) purchase(t *testing.T, storageID int64, kg float64) *model.Purchase {
	t.Helper()
	p, err := RecordPurchase(context.Background(), fx.db, PurchaseInput{
		FarmerID:   fx.farmer.ID,
		StorageID:  storageID,
		Date:       "2024-01-01",
		QuantityKg: kg,
		PricePerKg: 2.5,
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	return p
}

func (fx *fixture) storageState(t *testing.T, id int64) *model.StorageLocation {
	t.Helper()
	s, err := GetStorage(context.Background(), fx.db, id)
	if err != nil {
		t.Fatalf("GetStorage: %v", err)
	}
	return s
}

func (fx *fixture) produce(t *testing.T, category model.Category, units int) *model.Product {
	t.Helper()
	p, err := Produce(context.Background(), fx.db, ProduceInput{
		Category:      category,
		Type:          model.TypeFresh,
		Price:         3,
		QuantityUnits: units,
		StorageID:     fx.storage.ID,
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	return p
}

// checkCapacity verifies every storage's current capacity against its contents.
func checkCapacity(t *testing.T, database *db.DB) {
	t.Helper()
	var storages []model.StorageLocation
	err := database.View(context.Background(), func(tx *db.Tx) error {
		return tx.Load(db.Storages, &storages)
	})
	if err != nil {
		t.Fatalf("loading storages: %v", err)
	}
	for _, s := range storages {
		var sum float64
		for _, it := range s.RawItems {
			sum += it.QuantityKg
		}
		for _, it := range s.ProcessedItems {
			sum += it.TotalWeightKg
		}
		if diff := sum - s.CurrentCapacity; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("storage %d: current capacity %v, contents sum %v", s.ID, s.CurrentCapacity, sum)
		}
		if s.CurrentCapacity < 0 || s.CurrentCapacity > s.MaxCapacity {
			t.Errorf("storage %d: current capacity %v outside [0, %v]", s.ID, s.CurrentCapacity, s.MaxCapacity)
		}
	}
}
