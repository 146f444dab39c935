package app

import (
	"context"

	"github.com/erazemk/pridelek/internal/events"
	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/store"
)

func (s *Service) RecordPurchase(ctx context.Context, in store.PurchaseInput) (*model.Purchase, error) {
	p, err := observe(s, "purchase.record", func() (*model.Purchase, error) {
		return store.RecordPurchase(ctx, s.db, in)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("purchase recorded", "id", p.ID, "farmer", p.FarmerID, "storage", p.StorageID, "kg", p.QuantityKg)
	s.publish(events.PurchaseRecorded, "purchase", p.ID, p)
	return p, nil
}

func (s *Service) UpdatePurchase(ctx context.Context, id int64, upd model.PurchaseUpdate) (*model.Purchase, error) {
	p, err := observe(s, "purchase.update", func() (*model.Purchase, error) {
		return store.UpdatePurchase(ctx, s.db, id, upd)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("purchase updated", "id", p.ID, "storage", p.StorageID)
	s.publish(events.PurchaseUpdated, "purchase", p.ID, p)
	return p, nil
}

// DeletePurchase removes a purchase and returns the raw kg taken out of storage.
func (s *Service) DeletePurchase(ctx context.Context, id int64) (float64, error) {
	kg, err := observe(s, "purchase.delete", func() (float64, error) {
		return store.DeletePurchase(ctx, s.db, id)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("purchase deleted", "id", id, "removedKg", kg)
	s.publish(events.PurchaseDeleted, "purchase", id, map[string]float64{"removedKg": kg})
	return kg, nil
}

func (s *Service) Produce(ctx context.Context, in store.ProduceInput) (*model.Product, error) {
	p, err := observe(s, "product.produce", func() (*model.Product, error) {
		return store.Produce(ctx, s.db, in)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("product produced", "id", p.ID, "category", p.Category, "type", p.Type, "units", p.QuantityUnits, "kg", p.TotalWeightKg())
	s.publish(events.ProductCreated, "product", p.ID, p)
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) (*model.Product, error) {
	p, err := observe(s, "product.update", func() (*model.Product, error) {
		return store.UpdateProduct(ctx, s.db, id, upd)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("product updated", "id", p.ID, "units", p.QuantityUnits, "price", p.Price)
	s.publish(events.ProductUpdated, "product", p.ID, p)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	_, err := observe(s, "product.delete", func() (none, error) {
		return none{}, store.DeleteProduct(ctx, s.db, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("product deleted", "id", id)
	s.publish(events.ProductDeleted, "product", id, nil)
	return nil
}

func (s *Service) PlaceOrder(ctx context.Context, customerID, productID int64, units int) (*model.Order, error) {
	o, err := observe(s, "order.place", func() (*model.Order, error) {
		return store.PlaceOrder(ctx, s.db, customerID, productID, units)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order placed", "id", o.ID, "customer", o.CustomerID, "product", o.ProductID, "units", o.QuantityUnits)
	s.publish(events.OrderPlaced, "order", o.ID, o)
	return o, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, upd model.OrderUpdate) (*model.Order, error) {
	o, err := observe(s, "order.update", func() (*model.Order, error) {
		return store.UpdateOrder(ctx, s.db, id, upd)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order updated", "id", o.ID, "status", o.Status, "units", o.QuantityUnits)
	s.publish(events.OrderUpdated, "order", o.ID, o)
	return o, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	_, err := observe(s, "order.delete", func() (none, error) {
		return none{}, store.DeleteOrder(ctx, s.db, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("order deleted", "id", id)
	s.publish(events.OrderDeleted, "order", id, nil)
	return nil
}

func (s *Service) TransferToInventory(ctx context.Context, in store.TransferInput) (*model.InventoryEntry, error) {
	e, err := observe(s, "inventory.transfer", func() (*model.InventoryEntry, error) {
		return store.TransferToInventory(ctx, s.db, in)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("inventory entry created", "id", e.ID, "type", e.Type, "category", e.Category)
	s.publish(events.InventoryChanged, "inventory entry", e.ID, e)
	s.checkLowStock(e)
	return e, nil
}

func (s *Service) UpdateInventoryEntry(ctx context.Context, id int64, upd model.InventoryUpdate) (*model.InventoryEntry, error) {
	e, err := observe(s, "inventory.update", func() (*model.InventoryEntry, error) {
		return store.UpdateInventoryEntry(ctx, s.db, id, upd)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("inventory entry updated", "id", e.ID, "level", e.Level(), "reorderLevel", e.ReorderLevel)
	s.publish(events.InventoryChanged, "inventory entry", e.ID, e)
	s.checkLowStock(e)
	return e, nil
}

func (s *Service) DeleteInventoryEntry(ctx context.Context, id int64) error {
	_, err := observe(s, "inventory.delete", func() (none, error) {
		return none{}, store.DeleteInventoryEntry(ctx, s.db, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("inventory entry deleted", "id", id)
	s.publish(events.InventoryDeleted, "inventory entry", id, nil)
	return nil
}
