// Package metrics defines the server's Prometheus instruments. They are
// registered on the registry passed to New, so tests can use their own.
package metrics

import (
	"context"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "safesend"

const (
	OutcomeSuccess  = "success"
	OutcomeReverted = "reverted"
	OutcomeDropped  = "dropped"
)

type Metrics struct {
	factory  promauto.Factory
	txs      *prometheus.CounterVec
	gas      *prometheus.CounterVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	archived *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		factory: f,
		txs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Ledger transactions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		gas: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "gas_used_total",
			Help:      "Resource units consumed by finalized transactions.",
		}, []string{"kind"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		archived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "receipts_total",
			Help:      "Receipts written to the archive, by result.",
		}, []string{"result"}),
	}
}

// TrackPoolDepth exposes depth() as the pending pool gauge.
func (m *Metrics) TrackPoolDepth(depth func() int) {
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "txpool",
		Name:      "pending",
		Help:      "Transactions accepted but not yet picked up by the sequencer.",
	}, func() float64 { return float64(depth()) })
}

func (m *Metrics) Finalized(_ context.Context, r *ledger.Receipt) {
	outcome := OutcomeSuccess
	if !r.Success {
		outcome = OutcomeReverted
	}
	m.txs.WithLabelValues(string(r.Kind), outcome).Inc()
	m.gas.WithLabelValues(string(r.Kind)).Add(float64(r.GasUsed))
}

func (m *Metrics) Dropped(_ context.Context, tx *ledger.Transaction, _ error) {
	m.txs.WithLabelValues(string(tx.Kind), OutcomeDropped).Inc()
}

func (m *Metrics) ObserveRequest(method, code string, d time.Duration) {
	m.requests.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) Archived(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.archived.WithLabelValues(result).Inc()
}
