// Package report derives sales and financial summaries from ledger records.
// Reports are pure functions over already loaded collections.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/model"
)

// Range is an inclusive date range. A zero bound is open.
type Range struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// CategorySales sums the orders of one product category.
type CategorySales struct {
	Category model.Category `json:"category"`
	Units    int            `json:"units"`
	Revenue  float64        `json:"revenue"`
}

// CategoryTypeSales sums the orders of one category and product type. Orders
// whose product has since been deleted have an empty type.
type CategoryTypeSales struct {
	Category model.Category `json:"category"`
	Type     model.Type     `json:"type"`
	Units    int            `json:"units"`
	Revenue  float64        `json:"revenue"`
	Tax      float64        `json:"tax"`
}

// SalesReport summarises units and revenue per category.
type SalesReport struct {
	Range        Range           `json:"range"`
	Categories   []CategorySales `json:"categories"`
	TotalUnits   int             `json:"totalUnits"`
	TotalRevenue float64         `json:"totalRevenue"`
}

// Sales builds a sales report from the orders placed within r.
func Sales(orders []model.Order, r Range) SalesReport {
	in := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if r.Contains(o.OrderDate) {
			in = append(in, o)
		}
	}

	rep := SalesReport{Range: r, Categories: byCategory(in)}
	total := decimal.Zero
	for _, c := range rep.Categories {
		rep.TotalUnits += c.Units
		total = total.Add(decimal.NewFromFloat(c.Revenue))
	}
	rep.TotalRevenue = money(total)
	return rep
}

// Financial is the income statement of the business.
type Financial struct {
	Income         float64             `json:"income"`
	Expense        float64             `json:"expense"`
	TaxRate        float64             `json:"taxRate"`
	Tax            float64             `json:"tax"`
	Net            float64             `json:"net"`
	MarginPercent  float64             `json:"marginPercent"`
	Orders         int                 `json:"orders"`
	Purchases      int                 `json:"purchases"`
	ByCategory     []CategorySales     `json:"byCategory"`
	ByCategoryType []CategoryTypeSales `json:"byCategoryType"`
}

// Financials computes income, expense, tax and net profit. Income is taxed at
// taxRate; the margin is zero when there is no income.
func Financials(orders []model.Order, purchases []model.Purchase, products []model.Product, taxRate float64) Financial {
	income, expense := decimal.Zero, decimal.Zero
	for _, o := range orders {
		income = income.Add(decimal.NewFromFloat(o.TotalPrice))
	}
	for _, p := range purchases {
		expense = expense.Add(decimal.NewFromFloat(p.TotalCost))
	}
	rate := decimal.NewFromFloat(taxRate)
	tax := income.Mul(rate)
	net := income.Sub(expense).Sub(tax)

	f := Financial{
		Income:     money(income),
		Expense:    money(expense),
		TaxRate:    taxRate,
		Tax:        money(tax),
		Net:        money(net),
		Orders:     len(orders),
		Purchases:  len(purchases),
		ByCategory: byCategory(orders),
	}
	if income.IsPositive() {
		f.MarginPercent = money(net.Div(income).Mul(decimal.NewFromInt(100)))
	}

	types := make(map[int64]model.Type, len(products))
	for _, p := range products {
		types[p.ID] = p.Type
	}
	type key struct {
		c model.Category
		t model.Type
	}
	sums := map[key]*CategoryTypeSales{}
	revenue := map[key]decimal.Decimal{}
	var keys []key
	for _, o := range orders {
		k := key{o.ProductCategory, types[o.ProductID]}
		s, ok := sums[k]
		if !ok {
			s = &CategoryTypeSales{Category: k.c, Type: k.t}
			sums[k] = s
			keys = append(keys, k)
		}
		s.Units += o.QuantityUnits
		revenue[k] = revenue[k].Add(decimal.NewFromFloat(o.TotalPrice))
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].c != keys[j].c {
			return keys[i].c < keys[j].c
		}
		return keys[i].t < keys[j].t
	})
	f.ByCategoryType = make([]CategoryTypeSales, 0, len(keys))
	for _, k := range keys {
		s := sums[k]
		s.Revenue = money(revenue[k])
		s.Tax = money(revenue[k].Mul(rate))
		f.ByCategoryType = append(f.ByCategoryType, *s)
	}
	return f
}

// Period is a window used by expense reports.
type Period string

// Expense report periods.
const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ExpenseReport sums the cost of purchases made within a period.
type ExpenseReport struct {
	Period    Period    `json:"period"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Purchases int       `json:"purchases"`
	Total     float64   `json:"total"`
}

// Expenses sums purchase costs over the day, week (starting Sunday) or month
// containing ref.
func Expenses(purchases []model.Purchase, period Period, ref time.Time) (ExpenseReport, error) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	var from, to time.Time
	switch period {
	case Daily:
		from, to = day, day.AddDate(0, 0, 1)
	case Weekly:
		from = day.AddDate(0, 0, -int(day.Weekday()))
		to = from.AddDate(0, 0, 7)
	case Monthly:
		from = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		to = from.AddDate(0, 1, 0)
	default:
		return ExpenseReport{}, fmt.Errorf("unknown period %q", period)
	}

	rep := ExpenseReport{Period: period, From: from, To: to}
	total := decimal.Zero
	for _, p := range purchases {
		if p.Date.Before(from) || !p.Date.Before(to) {
			continue
		}
		rep.Purchases++
		total = total.Add(decimal.NewFromFloat(p.TotalCost))
	}
	rep.Total = money(total)
	return rep, nil
}

// InventoryLine reports the turnover of one monitored inventory entry.
type InventoryLine struct {
	EntryID        int64   `json:"entryId"`
	Category       string  `json:"category"`
	CurrentStock   float64 `json:"currentStock"`
	UnitsSold      int     `json:"unitsSold"`
	RawPurchasedKg float64 `json:"rawPurchasedKg"`
	TurnoverRate   float64 `json:"turnoverRate"`
	Status         string  `json:"status"`
}

// Inventory reports, for each entry, what was sold and bought within r.
// Units sold count orders of the entry's category; raw purchases count only
// toward RAW entries of the same storage. Turnover is units sold divided by
// half of current stock plus units sold.
func Inventory(entries []model.InventoryEntry, orders []model.Order, purchases []model.Purchase, r Range) []InventoryLine {
	out := make([]InventoryLine, 0, len(entries))
	for _, e := range entries {
		line := InventoryLine{
			EntryID:      e.ID,
			Category:     e.Category,
			CurrentStock: e.Level(),
			Status:       e.Status(),
		}
		for _, o := range orders {
			if string(o.ProductCategory) == e.Category && r.Contains(o.OrderDate) {
				line.UnitsSold += o.QuantityUnits
			}
		}
		if e.Type == model.SourceRaw {
			bought := decimal.Zero
			for _, p := range purchases {
				if p.StorageID == e.StorageID && r.Contains(p.Date) {
					bought = bought.Add(decimal.NewFromFloat(p.QuantityKg))
				}
			}
			line.RawPurchasedKg, _ = bought.Round(6).Float64()
		}

		sold := decimal.NewFromInt(int64(line.UnitsSold))
		avg := decimal.NewFromFloat(line.CurrentStock).Add(sold).Div(decimal.NewFromInt(2))
		if avg.IsPositive() {
			line.TurnoverRate, _ = sold.Div(avg).Round(4).Float64()
		}
		out = append(out, line)
	}
	return out
}

func byCategory(orders []model.Order) []CategorySales {
	units := map[model.Category]int{}
	revenue := map[model.Category]decimal.Decimal{}
	for _, o := range orders {
		units[o.ProductCategory] += o.QuantityUnits
		revenue[o.ProductCategory] = revenue[o.ProductCategory].Add(decimal.NewFromFloat(o.TotalPrice))
	}

	out := make([]CategorySales, 0, len(units))
	for _, c := range model.Categories {
		if _, ok := units[c]; !ok {
			continue
		}
		out = append(out, CategorySales{Category: c, Units: units[c], Revenue: money(revenue[c])})
	}
	return out
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
