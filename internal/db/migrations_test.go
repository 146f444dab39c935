package db

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMigrateLegacyLayout(t *testing.T) {
	d := NewMemory()
	ctx := context.Background()

	legacy := map[string]string{
		"processed_products": `[{"id":1700000000001,"category":"PREMIUM","price":4,"type":"FRESH","quantity":10,"customWeight":750,"weight":null,"storageId":1}]`,
		Storages:             `[{"id":1,"name":"Hall","maxCapacity":100,"currentCapacity":17.5,"contents":{"raw":[{"purchaseId":9,"quantity":10}],"processed":[{"productId":1700000000001,"quantity":10,"totalWeight":7.5}]}}]`,
		Purchases:            `[{"id":9,"farmerId":2,"quantity":10,"pricePerKg":1.5,"totalCost":15}]`,
		Orders:               `[{"id":4,"customerId":3,"productId":1700000000001,"quantity":2,"status":"PENDING"}]`,
		Inventory:            `[{"id":5,"type":"RAW","quantity":12,"source":1,"reorderLevel":3}]`,
	}
	for name, payload := range legacy {
		if err := d.Set(ctx, name, []byte(payload)); err != nil {
			t.Fatalf("seeding %s: %v", name, err)
		}
	}

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var products []map[string]any
	decode(t, d, Products, &products)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0]["quantityUnits"] != float64(10) {
		t.Errorf("expected quantityUnits 10, got %v", products[0]["quantityUnits"])
	}
	if products[0]["unitWeightGrams"] != float64(750) {
		t.Errorf("expected unitWeightGrams 750, got %v", products[0]["unitWeightGrams"])
	}
	if products[0]["id"] != float64(1700000000001) {
		t.Errorf("expected id to survive, got %v", products[0]["id"])
	}

	var storages []map[string]any
	decode(t, d, Storages, &storages)
	if _, ok := storages[0]["contents"]; ok {
		t.Error("expected contents to be removed")
	}
	raw := storages[0]["rawItems"].([]any)
	if len(raw) != 1 || raw[0].(map[string]any)["quantityKg"] != float64(10) {
		t.Errorf("unexpected raw items %v", raw)
	}
	processed := storages[0]["processedItems"].([]any)
	if len(processed) != 1 || processed[0].(map[string]any)["totalWeightKg"] != 7.5 {
		t.Errorf("unexpected processed items %v", processed)
	}

	var purchases []map[string]any
	decode(t, d, Purchases, &purchases)
	if purchases[0]["quantityKg"] != float64(10) {
		t.Errorf("expected quantityKg 10, got %v", purchases[0]["quantityKg"])
	}

	var orders []map[string]any
	decode(t, d, Orders, &orders)
	if orders[0]["quantityUnits"] != float64(2) {
		t.Errorf("expected quantityUnits 2, got %v", orders[0]["quantityUnits"])
	}

	var inventory []map[string]any
	decode(t, d, Inventory, &inventory)
	if inventory[0]["totalWeightKg"] != float64(12) || inventory[0]["storageId"] != float64(1) {
		t.Errorf("unexpected inventory entry %v", inventory[0])
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d := NewMemory()
	ctx := context.Background()

	if err := d.Set(ctx, Purchases, []byte(`[{"id":1,"quantity":5}]`)); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	first, _ := d.Get(ctx, Purchases)

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	second, _ := d.Get(ctx, Purchases)

	if string(first) != string(second) {
		t.Errorf("second migration changed data: %s -> %s", first, second)
	}
}

func TestMigrateEmptyStore(t *testing.T) {
	d := NewMemory()
	ctx := context.Background()

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	data, _ := d.Get(ctx, Products)
	if data != nil {
		t.Errorf("expected no products collection, got %s", data)
	}
}

func decode(t *testing.T, d *DB, name string, dst any) {
	t.Helper()
	data, err := d.Get(context.Background(), name)
	if err != nil {
		t.Fatalf("Get %s: %v", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decoding %s: %v", name, err)
	}
}
