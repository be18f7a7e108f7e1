package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects run metrics. All methods are safe on a nil receiver so
// callers can run without a registry.
type Metrics struct {
	// RemoteCalls counts remote calls.
	// Labels: role (answer|judge), model, kind (ok|rate_limited|timeout|...)
	RemoteCalls *prometheus.CounterVec

	// RemoteCallDuration measures remote call latency in seconds.
	// Labels: role, model
	RemoteCallDuration *prometheus.HistogramVec

	// Outcomes counts finished units.
	// Labels: status (recorded|judged_error|failed), category
	Outcomes *prometheus.CounterVec

	// LedgerFlushes counts flushes by result (success|error).
	LedgerFlushes *prometheus.CounterVec

	// LedgerRecords counts records durably appended.
	LedgerRecords prometheus.Counter

	// InFlight tracks units currently executing.
	InFlight prometheus.Gauge

	// Pending tracks units not yet finished in the current run.
	Pending prometheus.Gauge
}

// NewMetrics creates and registers all metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abstain_remote_calls_total",
				Help: "Total number of remote model calls by role, model, and result kind",
			},
			[]string{"role", "model", "kind"},
		),
		RemoteCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abstain_remote_call_duration_seconds",
				Help:    "Duration of remote model calls in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"role", "model"},
		),
		Outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abstain_outcomes_total",
				Help: "Total number of finished units by status and category",
			},
			[]string{"status", "category"},
		),
		LedgerFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abstain_ledger_flushes_total",
				Help: "Total number of ledger flushes by result",
			},
			[]string{"result"},
		),
		LedgerRecords: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "abstain_ledger_records_total",
				Help: "Total number of records appended to the ledger",
			},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "abstain_units_in_flight",
				Help: "Number of units currently executing",
			},
		),
		Pending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "abstain_units_pending",
				Help: "Number of units not yet finished in the current run",
			},
		),
	}
}

// ObserveCall records one remote call.
func (m *Metrics) ObserveCall(role, model, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(role, model, kind).Inc()
	m.RemoteCallDuration.WithLabelValues(role, model).Observe(duration.Seconds())
}

// ObserveOutcome records one finished unit.
func (m *Metrics) ObserveOutcome(status, category string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(status, category).Inc()
	m.Pending.Dec()
}

// ObserveFlush records a ledger flush of n records.
func (m *Metrics) ObserveFlush(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.LedgerFlushes.WithLabelValues("error").Inc()
		return
	}
	m.LedgerFlushes.WithLabelValues("success").Inc()
	m.LedgerRecords.Add(float64(n))
}

// UnitStarted marks a unit as in flight.
func (m *Metrics) UnitStarted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

// UnitFinished marks a unit as no longer in flight.
func (m *Metrics) UnitFinished() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}

// SetPending sets the number of units scheduled for the run.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}

// Handler serves the metrics in gatherer over HTTP.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
