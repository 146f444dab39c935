package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/erazemk/pridelek/internal/app"
	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/report"
)

// usageError is a malformed command line.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type cli struct {
	svc    *app.Service
	stdout io.Writer
	stderr io.Writer
}

type action func(c *cli, ctx context.Context, args []string) (any, error)

var commands = map[string]map[string]action{
	"farmer": {
		"add":    (*cli).addFarmer,
		"list":   (*cli).listFarmers,
		"get":    getter((*app.Service).Farmer),
		"update": (*cli).updateFarmer,
		"delete": deleter((*app.Service).DeleteFarmer),
	},
	"customer": {
		"add":    (*cli).addCustomer,
		"list":   lister((*app.Service).Customers),
		"get":    getter((*app.Service).Customer),
		"update": (*cli).updateCustomer,
		"delete": deleter((*app.Service).DeleteCustomer),
	},
	"storage": {
		"add":    (*cli).addStorage,
		"list":   lister((*app.Service).Storages),
		"get":    getter((*app.Service).Storage),
		"update": (*cli).updateStorage,
		"delete": deleter((*app.Service).DeleteStorage),
		"raw":    lister((*app.Service).RawPool),
	},
	"purchase": {
		"add":    (*cli).addPurchase,
		"list":   (*cli).listPurchases,
		"get":    getter((*app.Service).Purchase),
		"update": (*cli).updatePurchase,
		"delete": (*cli).deletePurchase,
	},
	"product": {
		"add":    (*cli).addProduct,
		"list":   lister((*app.Service).Products),
		"get":    getter((*app.Service).Product),
		"update": (*cli).updateProduct,
		"delete": deleter((*app.Service).DeleteProduct),
	},
	"order": {
		"add":    (*cli).addOrder,
		"list":   (*cli).listOrders,
		"get":    getter((*app.Service).Order),
		"update": (*cli).updateOrder,
		"delete": deleter((*app.Service).DeleteOrder),
	},
	"inventory": {
		"add":    (*cli).addInventory,
		"list":   lister((*app.Service).Inventory),
		"status": lister((*app.Service).InventoryStatus),
		"update": (*cli).updateInventory,
		"delete": deleter((*app.Service).DeleteInventoryEntry),
	},
	"report": {
		"sales":     (*cli).salesReport,
		"financial": (*cli).financialReport,
		"expense":   (*cli).expenseReport,
		"inventory": (*cli).inventoryReport,
	},
	"settings": {
		"show": lister((*app.Service).Settings),
		"tax":  (*cli).setTax,
	},
}

// dispatch runs one action and prints its result as JSON.
func (c *cli) dispatch(ctx context.Context, command, name string, args []string) error {
	actions, ok := commands[command]
	if !ok {
		return usagef("unknown command: %s", command)
	}
	act, ok := actions[name]
	if !ok {
		return usagef("unknown %s action: %s", command, name)
	}

	out, err := act(c, ctx, args)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parse parses args and rejects leftover positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// splitID takes the leading record id off args.
func splitID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, usagef("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, usagef("invalid id: %s", args[0])
	}
	return id, args[1:], nil
}

func getter[T any](get func(*app.Service, context.Context, int64) (T, error)) action {
	return func(c *cli, ctx context.Context, args []string) (any, error) {
		id, rest, err := splitID(args)
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			return nil, usagef("unexpected argument: %s", rest[0])
		}
		return get(c.svc, ctx, id)
	}
}

func lister[T any](list func(*app.Service, context.Context) (T, error)) action {
	return func(c *cli, ctx context.Context, args []string) (any, error) {
		if len(args) > 0 {
			return nil, usagef("unexpected argument: %s", args[0])
		}
		return list(c.svc, ctx)
	}
}

func deleter(del func(*app.Service, context.Context, int64) error) action {
	return func(c *cli, ctx context.Context, args []string) (any, error) {
		id, rest, err := splitID(args)
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			return nil, usagef("unexpected argument: %s", rest[0])
		}
		if err := del(c.svc, ctx, id); err != nil {
			return nil, err
		}
		return map[string]int64{"deleted": id}, nil
	}
}

// parseRange reads a report date range. A date-only upper bound covers the
// whole day.
func parseRange(from, to string) (report.Range, error) {
	var r report.Range
	if from != "" {
		t, ok := model.ParseDate(from)
		if !ok {
			return r, usagef("invalid -from date: %s", from)
		}
		r.From = t
	}
	if to != "" {
		t, ok := model.ParseDate(to)
		if !ok {
			return r, usagef("invalid -to date: %s", to)
		}
		if len(to) == len(time.DateOnly) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		r.To = t
	}
	return r, nil
}
