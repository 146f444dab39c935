package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

func TestOrderDrainsAndRestocks(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 5)

	o, err := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 5)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.Status != model.OrderPending {
		t.Errorf("expected PENDING, got %s", o.Status)
	}
	if o.TotalPrice != 15 || o.UnitPrice != 3 {
		t.Errorf("unexpected prices %+v", o)
	}

	got, _ := GetProduct(ctx, fx.db, p.ID)
	if got.QuantityUnits != 0 {
		t.Errorf("expected 0 units, got %d", got.QuantityUnits)
	}
	if s := fx.storageState(t, fx.storage.ID); len(s.ProcessedItems) != 0 {
		t.Errorf("expected processed item removed, got %+v", s.ProcessedItems)
	}

	if err := DeleteOrder(ctx, fx.db, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	got, _ = GetProduct(ctx, fx.db, p.ID)
	if got.QuantityUnits != 5 {
		t.Errorf("expected 5 units after restock, got %d", got.QuantityUnits)
	}
	s := fx.storageState(t, fx.storage.ID)
	if len(s.ProcessedItems) != 1 || s.ProcessedItems[0].QuantityUnits != 5 {
		t.Errorf("expected processed item with 5 units, got %+v", s.ProcessedItems)
	}
	checkCapacity(t, fx.db)
}

func TestPlaceOrderErrors(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 5)

	var stockErr *ledger.InsufficientStockError
	if _, err := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 6); !errors.As(err, &stockErr) {
		t.Errorf("expected insufficient stock, got %v", err)
	} else if stockErr.Available != 5 {
		t.Errorf("expected 5 available, got %d", stockErr.Available)
	}
	if _, err := PlaceOrder(ctx, fx.db, 99, p.ID, 1); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected customer not found, got %v", err)
	}
	if _, err := PlaceOrder(ctx, fx.db, fx.customer.ID, 99, 1); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected product not found, got %v", err)
	}
	if _, err := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 0); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateOrderQuantity(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 10)
	o, _ := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 4)

	seven := 7
	got, err := UpdateOrder(ctx, fx.db, o.ID, model.OrderUpdate{QuantityUnits: &seven})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if got.TotalPrice != 21 {
		t.Errorf("expected total 21, got %v", got.TotalPrice)
	}
	prod, _ := GetProduct(ctx, fx.db, p.ID)
	if prod.QuantityUnits != 3 {
		t.Errorf("expected 3 units in stock, got %d", prod.QuantityUnits)
	}

	two := 2
	if _, err := UpdateOrder(ctx, fx.db, o.ID, model.OrderUpdate{QuantityUnits: &two}); err != nil {
		t.Fatalf("UpdateOrder decrease: %v", err)
	}
	prod, _ = GetProduct(ctx, fx.db, p.ID)
	if prod.QuantityUnits != 8 {
		t.Errorf("expected 8 units in stock, got %d", prod.QuantityUnits)
	}
	if s := fx.storageState(t, fx.storage.ID); s.ProcessedItems[0].QuantityUnits != 8 {
		t.Errorf("expected storage to hold 8 units, got %d", s.ProcessedItems[0].QuantityUnits)
	}

	twenty := 20
	if _, err := UpdateOrder(ctx, fx.db, o.ID, model.OrderUpdate{QuantityUnits: &twenty}); !errors.Is(err, ledger.ErrInsufficientStock) {
		t.Errorf("expected insufficient stock, got %v", err)
	}
	checkCapacity(t, fx.db)
}

func TestUpdateOrderStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 10)
	o, _ := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 1)

	steps := []struct {
		to      model.OrderStatus
		wantErr bool
	}{
		{model.OrderShipped, true},
		{model.OrderProcessed, false},
		{model.OrderProcessed, false},
		{model.OrderPending, true},
		{model.OrderShipped, false},
		{model.OrderDelivered, false},
	}
	for _, s := range steps {
		status := s.to
		_, err := UpdateOrder(ctx, fx.db, o.ID, model.OrderUpdate{Status: &status})
		if s.wantErr && !errors.Is(err, ledger.ErrValidation) {
			t.Errorf("to %s: expected validation error, got %v", s.to, err)
		}
		if !s.wantErr && err != nil {
			t.Errorf("to %s: unexpected error %v", s.to, err)
		}
	}

	got, _ := GetOrder(ctx, fx.db, o.ID)
	if got.Status != model.OrderDelivered {
		t.Errorf("expected DELIVERED, got %s", got.Status)
	}
}

func TestDeleteOrderAfterProductDeleted(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 10)
	o, _ := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 3)

	if err := DeleteProduct(ctx, fx.db, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if err := DeleteOrder(ctx, fx.db, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if s := fx.storageState(t, fx.storage.ID); len(s.ProcessedItems) != 0 {
		t.Errorf("expected no restock, got %+v", s.ProcessedItems)
	}
	if err := DeleteOrder(ctx, fx.db, o.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteOrderAfterStockSoldOut(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	shop, err := CreateStorage(ctx, fx.db, "Shop", "Kranj", 50)
	if err != nil {
		t.Fatalf("CreateStorage: %v", err)
	}
	p, err := Produce(ctx, fx.db, ProduceInput{
		Category: model.CategorySmall, Type: model.TypeFresh, Price: 3, QuantityUnits: 5, StorageID: shop.ID,
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	o, err := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 5)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// The shop holds nothing, but the product still lives there.
	if err := DeleteStorage(ctx, fx.db, shop.ID); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := DeleteOrder(ctx, fx.db, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if got, _ := GetProduct(ctx, fx.db, p.ID); got.QuantityUnits != 5 {
		t.Errorf("expected 5 units restocked, got %d", got.QuantityUnits)
	}
}

func TestDeleteOrderRestockNeedsCapacity(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 10)
	o, err := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 10)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	// 9kg raw left; fill the storage to its 100kg ceiling.
	fx.purchase(t, fx.storage.ID, 91)

	err = DeleteOrder(ctx, fx.db, o.ID)
	if !errors.Is(err, ledger.ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	if _, err := GetOrder(ctx, fx.db, o.ID); err != nil {
		t.Errorf("expected order kept, got %v", err)
	}
	if got, _ := GetProduct(ctx, fx.db, p.ID); got.QuantityUnits != 0 {
		t.Errorf("expected no restock, got %d units", got.QuantityUnits)
	}
	checkCapacity(t, fx.db)

	fewer := 5
	if _, err := UpdateOrder(ctx, fx.db, o.ID, model.OrderUpdate{QuantityUnits: &fewer}); !errors.Is(err, ledger.ErrCapacityExceeded) {
		t.Errorf("expected capacity exceeded on decrease, got %v", err)
	}
}

func TestListOrdersFilter(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.purchase(t, fx.storage.ID, 10)
	p := fx.produce(t, model.CategorySmall, 10)

	other, _ := CreateCustomer(ctx, fx.db, model.Customer{Name: "Other"})
	o1, _ := PlaceOrder(ctx, fx.db, fx.customer.ID, p.ID, 1)
	PlaceOrder(ctx, fx.db, other.ID, p.ID, 1)
	processed := model.OrderProcessed
	UpdateOrder(ctx, fx.db, o1.ID, model.OrderUpdate{Status: &processed})

	byCustomer, _ := ListOrders(ctx, fx.db, OrderFilter{CustomerID: other.ID})
	if len(byCustomer) != 1 {
		t.Errorf("expected 1 order for customer, got %d", len(byCustomer))
	}
	pending, _ := ListOrders(ctx, fx.db, OrderFilter{Status: model.OrderPending})
	if len(pending) != 1 {
		t.Errorf("expected 1 pending order, got %d", len(pending))
	}
	if _, err := ListOrders(ctx, fx.db, OrderFilter{Status: "LOST"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
