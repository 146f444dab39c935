package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/erazemk/pridelek/internal/model"
)

func (c *cli) addFarmer(ctx context.Context, args []string) (any, error) {
	var f model.Farmer
	fs := c.flags("farmer add")
	farmerFlags(fs, &f)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.CreateFarmer(ctx, f)
}

func (c *cli) listFarmers(ctx context.Context, args []string) (any, error) {
	fs := c.flags("farmer list")
	query := fs.String("q", "", "filter by name, city or phone")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.Farmers(ctx, *query)
}

func (c *cli) updateFarmer(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	cur, err := c.svc.Farmer(ctx, id)
	if err != nil {
		return nil, err
	}
	f := *cur
	fs := c.flags("farmer update")
	farmerFlags(fs, &f)
	if err := parse(fs, rest); err != nil {
		return nil, err
	}
	return c.svc.UpdateFarmer(ctx, id, f)
}

// farmerFlags binds the farmer fields, defaulting to their current values.
func farmerFlags(fs *flag.FlagSet, f *model.Farmer) {
	fs.StringVar(&f.Name, "name", f.Name, "farmer name")
	fs.StringVar(&f.Contact.Phone, "phone", f.Contact.Phone, "phone number")
	fs.StringVar(&f.Contact.Email, "email", f.Contact.Email, "email address")
	fs.StringVar(&f.Location.Address, "address", f.Location.Address, "street address")
	fs.StringVar(&f.Location.City, "city", f.Location.City, "city")
}

func (c *cli) addCustomer(ctx context.Context, args []string) (any, error) {
	var cu model.Customer
	fs := c.flags("customer add")
	customerFlags(fs, &cu)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.CreateCustomer(ctx, cu)
}

func (c *cli) updateCustomer(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	cur, err := c.svc.Customer(ctx, id)
	if err != nil {
		return nil, err
	}
	cu := *cur
	fs := c.flags("customer update")
	customerFlags(fs, &cu)
	if err := parse(fs, rest); err != nil {
		return nil, err
	}
	return c.svc.UpdateCustomer(ctx, id, cu)
}

func customerFlags(fs *flag.FlagSet, cu *model.Customer) {
	fs.StringVar(&cu.Name, "name", cu.Name, "customer name")
	fs.StringVar(&cu.Contact.Phone, "phone", cu.Contact.Phone, "phone number")
	fs.StringVar(&cu.Contact.Email, "email", cu.Contact.Email, "email address")
	fs.StringVar(&cu.Address.Street, "street", cu.Address.Street, "street")
	fs.StringVar(&cu.Address.City, "city", cu.Address.City, "city")
	fs.StringVar(&cu.Address.PostalCode, "postal", cu.Address.PostalCode, "postal code")
}

func (c *cli) addStorage(ctx context.Context, args []string) (any, error) {
	fs := c.flags("storage add")
	name := fs.String("name", "", "storage name")
	location := fs.String("location", "", "where the storage is")
	maxKg := fs.Float64("max", 0, "maximum capacity in kg")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return c.svc.CreateStorage(ctx, *name, *location, *maxKg)
}

func (c *cli) updateStorage(ctx context.Context, args []string) (any, error) {
	id, rest, err := splitID(args)
	if err != nil {
		return nil, err
	}
	cur, err := c.svc.Storage(ctx, id)
	if err != nil {
		return nil, err
	}
	fs := c.flags("storage update")
	name := fs.String("name", cur.Name, "storage name")
	location := fs.String("location", cur.Location, "where the storage is")
	maxKg := fs.Float64("max", cur.MaxCapacity, "maximum capacity in kg")
	if err := parse(fs, rest); err != nil {
		return nil, err
	}
	return c.svc.UpdateStorage(ctx, id, *name, *location, *maxKg)
}

func (c *cli) setTax(ctx context.Context, args []string) (any, error) {
	if len(args) != 1 {
		return nil, usagef("usage: settings tax <rate>")
	}
	rate, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, usagef("invalid rate: %s", args[0])
	}
	return c.svc.SetTaxRate(ctx, rate)
}
