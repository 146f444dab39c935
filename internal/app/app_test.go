package app

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/events"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/metrics"
	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/report"
	"github.com/erazemk/pridelek/internal/store"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Append(e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type env struct {
	svc     *Service
	rec     *recorder
	logs    *bytes.Buffer
	farmer  *model.Farmer
	cust    *model.Customer
	storage *model.StorageLocation
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := &recorder{}
	svc := New(db.NewTestDB(t), logger, metrics.NewRegistry(), events.NewBus(rec))
	ctx := context.Background()

	f, err := svc.CreateFarmer(ctx, model.Farmer{Name: "Janez Novak"})
	require.NoError(t, err)
	c, err := svc.CreateCustomer(ctx, model.Customer{Name: "Market d.o.o."})
	require.NoError(t, err)
	s, err := svc.CreateStorage(ctx, "Hall A", "Kranj", 100)
	require.NoError(t, err)
	return &env{svc: svc, rec: rec, logs: logs, farmer: f, cust: c, storage: s}
}

func (e *env) purchase(t *testing.T, kg float64) *model.Purchase {
	t.Helper()
	p, err := e.svc.RecordPurchase(context.Background(), store.PurchaseInput{
		FarmerID:   e.farmer.ID,
		StorageID:  e.storage.ID,
		Date:       "2024-03-05",
		QuantityKg: kg,
		PricePerKg: 2,
	})
	require.NoError(t, err)
	return p
}

func TestSuccessfulMutationsPublishAndCount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.purchase(t, 50)
	p, err := e.svc.Produce(ctx, store.ProduceInput{
		Category:      model.CategoryMedium,
		Type:          model.TypeFresh,
		Price:         3,
		QuantityUnits: 40,
		StorageID:     e.storage.ID,
	})
	require.NoError(t, err)
	_, err = e.svc.PlaceOrder(ctx, e.cust.ID, p.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, []events.Kind{
		events.RecordChanged, events.RecordChanged, events.RecordChanged,
		events.PurchaseRecorded, events.ProductCreated, events.OrderPlaced,
	}, e.rec.kinds())

	reg := e.svc.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Operations.WithLabelValues("order.place", metrics.OutcomeOK)))
	assert.Contains(t, e.logs.String(), "order placed")
}

func TestRejectionLogsWarningWithoutEvent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	before := len(e.rec.kinds())

	_, err := e.svc.RecordPurchase(ctx, store.PurchaseInput{
		FarmerID:   e.farmer.ID,
		StorageID:  e.storage.ID,
		Date:       "2024-03-05",
		QuantityKg: 150,
		PricePerKg: 2,
	})
	require.ErrorIs(t, err, ledger.ErrCapacityExceeded)

	assert.Len(t, e.rec.kinds(), before)
	assert.Contains(t, e.logs.String(), "level=WARN")
	assert.Contains(t, e.logs.String(), "kind=capacity_exceeded")
	reg := e.svc.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Rejections.WithLabelValues("capacity_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Operations.WithLabelValues("purchase.record", metrics.OutcomeRejected)))
}

func TestLowStockAlert(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.purchase(t, 40)

	entry, err := e.svc.TransferToInventory(ctx, store.TransferInput{Type: model.SourceRaw, Quantity: 20, StorageID: e.storage.ID})
	require.NoError(t, err)
	assert.NotContains(t, e.rec.kinds(), events.LowStock)

	low := 5.0
	_, err = e.svc.UpdateInventoryEntry(ctx, entry.ID, model.InventoryUpdate{Quantity: &low})
	require.NoError(t, err)

	var alert *events.Event
	for i, ev := range e.rec.events {
		if ev.Kind == events.LowStock {
			alert = &e.rec.events[i]
		}
	}
	require.NotNil(t, alert)
	assert.Equal(t, entry.ID, alert.ID)
	assert.Contains(t, alert.Message, "below reorder level")
}

func TestRefreshGauges(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.purchase(t, 30)

	require.NoError(t, e.svc.RefreshGauges(ctx))
	reg := e.svc.Metrics()
	assert.Equal(t, 30.0, testutil.ToFloat64(reg.StorageUsed.WithLabelValues(strconv.FormatInt(e.storage.ID, 10))))
	assert.Equal(t, 100.0, testutil.ToFloat64(reg.StorageMax.WithLabelValues(strconv.FormatInt(e.storage.ID, 10))))
	assert.Equal(t, 30.0, testutil.ToFloat64(reg.RawTotalKg))
}

func TestDeleteRecordPublishes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.svc.DeleteCustomer(ctx, e.cust.ID))
	kinds := e.rec.kinds()
	assert.Equal(t, events.RecordDeleted, kinds[len(kinds)-1])

	_, err := e.svc.Customer(ctx, e.cust.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestReports(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.purchase(t, 50)

	p, err := e.svc.Produce(ctx, store.ProduceInput{
		Category:      model.CategorySmall,
		Type:          model.TypeOrganic,
		Price:         1.5,
		QuantityUnits: 100,
		StorageID:     e.storage.ID,
	})
	require.NoError(t, err)
	_, err = e.svc.PlaceOrder(ctx, e.cust.ID, p.ID, 20)
	require.NoError(t, err)

	sales, err := e.svc.SalesReport(ctx, report.Range{})
	require.NoError(t, err)
	assert.Equal(t, 20, sales.TotalUnits)
	assert.Equal(t, 30.0, sales.TotalRevenue)

	fin, err := e.svc.FinancialReport(ctx, report.Range{})
	require.NoError(t, err)
	assert.Equal(t, 30.0, fin.Income)
	assert.Equal(t, 100.0, fin.Expense)
	assert.Equal(t, 0.18, fin.TaxRate)

	// Purchases outside the range are not counted.
	fin, err = e.svc.FinancialReport(ctx, report.Range{To: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, fin.Expense)
	assert.Equal(t, 0, fin.Purchases)

	exp, err := e.svc.ExpenseReport(ctx, report.Monthly, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, exp.Purchases)
	assert.Equal(t, 100.0, exp.Total)
}
