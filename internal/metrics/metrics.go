// Package metrics records bill lifecycle activity in a Prometheus registry
// and writes it in the node_exporter textfile format.
//
// Counters cover one process run; the bill gauges reflect the stored
// collection after the last successful write.
package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/cafebill/internal/model"
)

// OutcomeOK labels operations that succeeded. Failed operations are
// labelled with their error code, or "error" for non-domain failures.
const OutcomeOK = "ok"

// Metrics holds the cafebill collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	bills      *prometheus.GaugeVec
	revenue    prometheus.Gauge
}

// New creates a registry with the cafebill collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafebill",
			Name:      "bill_operations_total",
			Help:      "Bill lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		bills: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cafebill",
			Name:      "bills",
			Help:      "Stored bills by status.",
		}, []string{"status"}),
		revenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cafebill",
			Name:      "completed_revenue",
			Help:      "Sum of totalAmount over COMPLETED bills, in integer currency units.",
		}),
	}
	m.registry.MustRegister(m.operations, m.bills, m.revenue)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation counts one engine operation. op is normalized to
// snake_case ("add item" becomes "add_item").
func (m *Metrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(strings.ReplaceAll(op, " ", "_"), outcome(err)).Inc()
}

// SetBills updates the per-status gauges and completed revenue from the
// full bill collection.
func (m *Metrics) SetBills(all []model.Bill) {
	if m == nil {
		return
	}
	var pending, completed, revenue int64
	for _, b := range all {
		switch b.Status {
		case model.StatusPending:
			pending++
		case model.StatusCompleted:
			completed++
			revenue += b.TotalAmount
		}
	}
	m.bills.WithLabelValues(string(model.StatusPending)).Set(float64(pending))
	m.bills.WithLabelValues(string(model.StatusCompleted)).Set(float64(completed))
	m.revenue.Set(float64(revenue))
}

// WriteTextfile atomically writes all metrics to path in the text
// exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var de *model.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	return "error"
}
