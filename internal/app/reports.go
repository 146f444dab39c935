package app

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/report"
	"github.com/erazemk/pridelek/internal/store"
)

func (s *Service) SalesReport(ctx context.Context, r report.Range) (report.SalesReport, error) {
	orders, err := store.ListOrders(ctx, s.db, store.OrderFilter{})
	if err != nil {
		return report.SalesReport{}, fmt.Errorf("listing orders: %w", err)
	}
	return report.Sales(orders, r), nil
}

// FinancialReport computes the income statement over the orders and purchases
// dated within r, taxed at the stored rate.
func (s *Service) FinancialReport(ctx context.Context, r report.Range) (report.Financial, error) {
	orders, err := store.ListOrders(ctx, s.db, store.OrderFilter{})
	if err != nil {
		return report.Financial{}, fmt.Errorf("listing orders: %w", err)
	}
	purchases, err := store.ListPurchases(ctx, s.db, 0)
	if err != nil {
		return report.Financial{}, fmt.Errorf("listing purchases: %w", err)
	}
	products, err := store.ListProducts(ctx, s.db)
	if err != nil {
		return report.Financial{}, fmt.Errorf("listing products: %w", err)
	}
	settings, err := store.GetSettings(ctx, s.db)
	if err != nil {
		return report.Financial{}, fmt.Errorf("loading settings: %w", err)
	}

	inOrders := orders[:0]
	for _, o := range orders {
		if r.Contains(o.OrderDate) {
			inOrders = append(inOrders, o)
		}
	}
	inPurchases := purchases[:0]
	for _, p := range purchases {
		if r.Contains(p.Date) {
			inPurchases = append(inPurchases, p)
		}
	}
	return report.Financials(inOrders, inPurchases, products, settings.TaxRate), nil
}

func (s *Service) ExpenseReport(ctx context.Context, period report.Period, ref time.Time) (report.ExpenseReport, error) {
	purchases, err := store.ListPurchases(ctx, s.db, 0)
	if err != nil {
		return report.ExpenseReport{}, fmt.Errorf("listing purchases: %w", err)
	}
	return report.Expenses(purchases, period, ref)
}

func (s *Service) InventoryReport(ctx context.Context, r report.Range) ([]report.InventoryLine, error) {
	entries, err := store.ListInventory(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	orders, err := store.ListOrders(ctx, s.db, store.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	purchases, err := store.ListPurchases(ctx, s.db, 0)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	return report.Inventory(entries, orders, purchases, r), nil
}

// Reads pass straight through to the store.

func (s *Service) Farmer(ctx context.Context, id int64) (*model.Farmer, error) {
	return store.GetFarmer(ctx, s.db, id)
}

func (s *Service) Farmers(ctx context.Context, query string) ([]model.Farmer, error) {
	if query != "" {
		return store.SearchFarmers(ctx, s.db, query)
	}
	return store.ListFarmers(ctx, s.db)
}

func (s *Service) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	return store.GetCustomer(ctx, s.db, id)
}

func (s *Service) Customers(ctx context.Context) ([]model.Customer, error) {
	return store.ListCustomers(ctx, s.db)
}

func (s *Service) Storage(ctx context.Context, id int64) (*model.StorageLocation, error) {
	return store.GetStorage(ctx, s.db, id)
}

func (s *Service) Storages(ctx context.Context) ([]model.StorageLocation, error) {
	return store.ListStorages(ctx, s.db)
}

func (s *Service) RawPool(ctx context.Context) (*store.RawPool, error) {
	return store.GetRawPool(ctx, s.db)
}

func (s *Service) Purchase(ctx context.Context, id int64) (*model.Purchase, error) {
	return store.GetPurchase(ctx, s.db, id)
}

func (s *Service) Purchases(ctx context.Context, farmerID int64) ([]model.Purchase, error) {
	return store.ListPurchases(ctx, s.db, farmerID)
}

func (s *Service) Product(ctx context.Context, id int64) (*model.Product, error) {
	return store.GetProduct(ctx, s.db, id)
}

func (s *Service) Products(ctx context.Context) ([]model.Product, error) {
	return store.ListProducts(ctx, s.db)
}

func (s *Service) Order(ctx context.Context, id int64) (*model.Order, error) {
	return store.GetOrder(ctx, s.db, id)
}

func (s *Service) Orders(ctx context.Context, f store.OrderFilter) ([]model.Order, error) {
	return store.ListOrders(ctx, s.db, f)
}

func (s *Service) Inventory(ctx context.Context) ([]model.InventoryEntry, error) {
	return store.ListInventory(ctx, s.db)
}

func (s *Service) InventoryStatus(ctx context.Context) ([]model.InventoryStatus, error) {
	return store.InventoryStatus(ctx, s.db)
}

func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	return store.GetSettings(ctx, s.db)
}
