package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/model"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Registry struct {
	reg         *prometheus.Registry
	Operations  *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	LatencySec  *prometheus.HistogramVec
	StorageUsed *prometheus.GaugeVec
	StorageMax  *prometheus.GaugeVec
	RawTotalKg  prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pridelek_operations_total"}, []string{"op", "outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pridelek_rejections_total"}, []string{"kind"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pridelek_operation_latency_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	used := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "pridelek_storage_used_kg"}, []string{"storage"})
	capacity := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "pridelek_storage_max_kg"}, []string{"storage"})
	raw := prometheus.NewGauge(prometheus.GaugeOpts{Name: "pridelek_raw_total_kg"})

	r.MustRegister(ops, rejections, latency, used, capacity, raw)
	return &Registry{
		reg:         r,
		Operations:  ops,
		Rejections:  rejections,
		LatencySec:  latency,
		StorageUsed: used,
		StorageMax:  capacity,
		RawTotalKg:  raw,
	}
}

// Observe records the outcome and duration of one operation.
func (r *Registry) Observe(op string, start time.Time, err error) {
	r.LatencySec.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := OutcomeOK
	if err != nil {
		if kind := ledger.Kind(err); kind != "" {
			outcome = OutcomeRejected
			r.Rejections.WithLabelValues(kind).Inc()
		} else {
			outcome = OutcomeError
		}
	}
	r.Operations.WithLabelValues(op, outcome).Inc()
}

// SetStorages replaces the capacity gauges with the given locations.
func (r *Registry) SetStorages(storages []model.StorageLocation) {
	r.StorageUsed.Reset()
	r.StorageMax.Reset()

	var raw float64
	for _, s := range storages {
		id := strconv.FormatInt(s.ID, 10)
		r.StorageUsed.WithLabelValues(id).Set(s.CurrentCapacity)
		r.StorageMax.WithLabelValues(id).Set(s.MaxCapacity)
		for _, it := range s.RawItems {
			raw += it.QuantityKg
		}
	}
	r.RawTotalKg.Set(raw)
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes the metrics in the text exposition format for the node
// exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
