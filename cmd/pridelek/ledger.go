package main

import (
	"context"
	"time"

	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/report"
	"github.com/erazemk/pridelek/internal/store"
)

func (c *cli) addPurchase(ctx context.Context, args []string) (any, error) {
	var in store.PurchaseInput
	fs := c.flags("purchase add")
	fs.Int64Var(&in.FarmerID, "farmer", 0, "farmer id")
	fs.Int64Var(&in.StorageID, "storage", 0, "storage id")
	fs.StringVar(&in.Date, "date", time.Now().Format(time.DateOnly), "purchase date")
	fs.Float64Var(&in.QuantityKg, "kg", 0, "quantity in kg")
	fs.Float64Var(&in.PricePerKg, "price", 0, "price per kg")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.RecordPurchase(ctx, in)
}

func (c *cli) listPurchases(ctx context.Context, args []string) (any, error) {
	fs := c.flags("purchase list")
	farmer := fs.Int64("farmer", 0, "only purchases from this farmer")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.Purchases(ctx, *farmer)
}

func (c *cli) updatePurchase(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	fs := c.flags("purchase update")
	farmer := fs.Int64("farmer", 0, "farmer id")
	storage := fs.Int64("storage", 0, "move the remaining raw material to this storage")
	date := fs.String("date", "", "purchase date")
	price := fs.Float64("price", 0, "price per kg")
	kg := fs.Float64("kg", 0, "quantity in kg (rejected, quantities are fixed)")
	if err := parse(fs, rest); err != nil {
		return nil, err
	}

	var upd model.PurchaseUpdate
	set := visited(fs)
	if set["farmer"] {
		upd.FarmerID = farmer
	}
	if set["storage"] {
		upd.StorageID = storage
	}
	if set["date"] {
		upd.Date = date
	}
	if set["price"] {
		upd.PricePerKg = price
	}
	if set["kg"] {
		upd.QuantityKg = kg
	}
	return c.svc.UpdatePurchase(ctx, id, upd)
}

func (c *cli) deletePurchase(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, usagef("unexpected argument: %s", rest[0])
	}
	kg, err := c.svc.DeletePurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id, "removedKg": kg}, nil
}

func (c *cli) addProduct(ctx context.Context, args []string) (any, error) {
	var in store.ProduceInput
	var category, typ string
	fs := c.flags("product add")
	fs.StringVar(&category, "category", "", "package size, e.g. MEDIUM or PREMIUM")
	fs.StringVar(&typ, "type", "", "RAW, FROZEN, FRESH or ORGANIC")
	fs.Float64Var(&in.Price, "price", 0, "unit price")
	fs.IntVar(&in.QuantityUnits, "units", 0, "units to package")
	fs.Int64Var(&in.StorageID, "storage", 0, "storage receiving the packages")
	fs.Float64Var(&in.CustomWeightGrams, "weight", 0, "unit weight in grams (PREMIUM only)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	in.Category = model.Category(category)
	in.Type = model.Type(typ)
	return c.svc.Produce(ctx, in)
}

func (c *cli) updateProduct(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	fs := c.flags("product update")
	price := fs.Float64("price", 0, "unit price")
	units := fs.Int("units", 0, "units in stock")
	if err := parse(fs, rest); err != nil {
		return nil, err
	}

	var upd model.ProductUpdate
	set := visited(fs)
	if set["price"] {
		upd.Price = price
	}
	if set["units"] {
		upd.QuantityUnits = units
	}
	return c.svc.UpdateProduct(ctx, id, upd)
}

func (c *cli) addOrder(ctx context.Context, args []string) (any, error) {
	fs := c.flags("order add")
	customer := fs.Int64("customer", 0, "customer id")
	product := fs.Int64("product", 0, "product id")
	units := fs.Int("units", 0, "units ordered")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.PlaceOrder(ctx, *customer, *product, *units)
}

func (c *cli) listOrders(ctx context.Context, args []string) (any, error) {
	fs := c.flags("order list")
	status := fs.String("status", "", "only orders with this status")
	customer := fs.Int64("customer", 0, "only orders of this customer")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.Orders(ctx, store.OrderFilter{Status: model.OrderStatus(*status), CustomerID: *customer})
}

func (c *cli) updateOrder(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	fs := c.flags("order update")
	units := fs.Int("units", 0, "units ordered")
	status := fs.String("status", "", "next status")
	if err := parse(fs, rest); err != nil {
		return nil, err
	}

	var upd model.OrderUpdate
	set := visited(fs)
	if set["units"] {
		upd.QuantityUnits = units
	}
	if set["status"] {
		s := model.OrderStatus(*status)
		upd.Status = &s
	}
	return c.svc.UpdateOrder(ctx, id, upd)
}

func (c *cli) addInventory(ctx context.Context, args []string) (any, error) {
	var in store.TransferInput
	var typ string
	fs := c.flags("inventory add")
	fs.StringVar(&typ, "type", string(model.SourceRaw), "RAW or PROCESSED")
	fs.Int64Var(&in.ProductID, "product", 0, "product id (PROCESSED only)")
	fs.Float64Var(&in.Quantity, "quantity", 0, "kg for RAW, units for PROCESSED")
	fs.Int64Var(&in.StorageID, "storage", 0, "storage id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	in.Type = model.SourceType(typ)
	return c.svc.TransferToInventory(ctx, in)
}

func (c *cli) updateInventory(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	fs := c.flags("inventory update")
	quantity := fs.Float64("quantity", 0, "kg for RAW, units for PROCESSED")
	reorder := fs.Float64("reorder", 0, "reorder level")
	if err := parse(fs, rest); err != nil {
		return nil, err
	}

	var upd model.InventoryUpdate
	set := visited(fs)
	if set["quantity"] {
		upd.Quantity = quantity
	}
	if set["reorder"] {
		upd.ReorderLevel = reorder
	}
	return c.svc.UpdateInventoryEntry(ctx, id, upd)
}

func (c *cli) rangeFlags(name string, args []string) (report.Range, error) {
	fs := c.flags(name)
	from := fs.String("from", "", "first day included")
	to := fs.String("to", "", "last day included")
	if err := parse(fs, args); err != nil {
		return report.Range{}, err
	}
	return parseRange(*from, *to)
}

func (c *cli) salesReport(ctx context.Context, args []string) (any, error) {
	r, err := c.rangeFlags("report sales", args)
	if err != nil {
		return nil, err
	}
	return c.svc.SalesReport(ctx, r)
}

func (c *cli) financialReport(ctx context.Context, args []string) (any, error) {
	r, err := c.rangeFlags("report financial", args)
	if err != nil {
		return nil, err
	}
	return c.svc.FinancialReport(ctx, r)
}

func (c *cli) inventoryReport(ctx context.Context, args []string) (any, error) {
	r, err := c.rangeFlags("report inventory", args)
	if err != nil {
		return nil, err
	}
	return c.svc.InventoryReport(ctx, r)
}

func (c *cli) expenseReport(ctx context.Context, args []string) (any, error) {
	fs := c.flags("report expense")
	period := fs.String("period", string(report.Monthly), "daily, weekly or monthly")
	date := fs.String("date", "", "reference date (default: today)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	ref := time.Now().UTC()
	if *date != "" {
		t, ok := model.ParseDate(*date)
		if !ok {
			return nil, usagef("invalid -date: %s", *date)
		}
		ref = t
	}
	switch p := report.Period(*period); p {
	case report.Daily, report.Weekly, report.Monthly:
		return c.svc.ExpenseReport(ctx, p, ref)
	}
	return nil, usagef("unknown period: %s", *period)
}
