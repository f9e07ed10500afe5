// Package metrics exposes the Prometheus instruments for the credit ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_latency_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// Ledger
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Total committed ledger transactions",
		},
		[]string{"type"},
	)
	TransactionsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_failed_total",
			Help: "Total rejected or failed ledger transactions",
		},
		[]string{"reason"},
	)
	TransfersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_transfers_total",
			Help: "Total committed transfers",
		},
	)
	BatchOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_batch_operations_total",
			Help: "Total batch operations by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler

// Init registers all instruments with the default registry
func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestLatency)
	prometheus.MustRegister(TransactionsTotal)
	prometheus.MustRegister(TransactionsFailed)
	prometheus.MustRegister(TransfersTotal)
	prometheus.MustRegister(BatchOperationsTotal)
}
