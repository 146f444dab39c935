// Package app is the boundary between the CLI and the ledger. It runs store
// operations and attaches logging, metrics and change events to them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/events"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/metrics"
	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/store"
)

// Service exposes every ledger operation.
type Service struct {
	db      *db.DB
	log     *slog.Logger
	metrics *metrics.Registry
	bus     *events.Bus
}

// New returns a service. Nil logger, registry or bus are replaced with defaults.
func New(database *db.DB, logger *slog.Logger, reg *metrics.Registry, bus *events.Bus) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Service{db: database, log: logger, metrics: reg, bus: bus}
}

// Metrics returns the service's metrics registry.
func (s *Service) Metrics() *metrics.Registry { return s.metrics }

// Events returns the bus observers subscribe to.
func (s *Service) Events() *events.Bus { return s.bus }

// observe runs a mutating operation, records its outcome and logs failures.
// Business-rule rejections log at WARN, anything else at ERROR.
func observe[T any](s *Service, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	s.metrics.Observe(op, start, err)
	if err != nil {
		if kind := ledger.Kind(err); kind != "" {
			s.log.Warn("operation rejected", "op", op, "kind", kind, "error", err)
		} else {
			s.log.Error("operation failed", "op", op, "error", err)
		}
	}
	return v, err
}

// publish delivers an event. Delivery failures are logged, never returned:
// the change they describe is already committed.
func (s *Service) publish(kind events.Kind, entity string, id int64, data any) {
	err := s.bus.Publish(events.Event{Kind: kind, Entity: entity, ID: id, Data: data})
	if err != nil {
		s.log.Warn("failed to publish event", "kind", kind, "error", err)
	}
}

// RefreshGauges updates the storage capacity gauges from the current state.
func (s *Service) RefreshGauges(ctx context.Context) error {
	storages, err := store.ListStorages(ctx, s.db)
	if err != nil {
		return fmt.Errorf("listing storages: %w", err)
	}
	s.metrics.SetStorages(storages)
	return nil
}

// none is the result type of operations that only return an error.
type none struct{}

func (s *Service) checkLowStock(e *model.InventoryEntry) {
	if !e.NeedsRestock() {
		return
	}
	msg := fmt.Sprintf("Low stock alert: %s is below reorder level (%g/%g)", e.Category, e.Level(), e.ReorderLevel)
	s.log.Warn("low stock", "entry", e.ID, "category", e.Category, "level", e.Level(), "reorderLevel", e.ReorderLevel)
	err := s.bus.Publish(events.Event{Kind: events.LowStock, Entity: "inventory entry", ID: e.ID, Message: msg, Data: e})
	if err != nil {
		s.log.Warn("failed to publish event", "kind", events.LowStock, "error", err)
	}
}
