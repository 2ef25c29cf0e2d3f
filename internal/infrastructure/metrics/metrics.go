package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values shared by the business counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeIgnored = "ignored"
)

// Registry holds every collector the service exports.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "bpi_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bpi_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	WebhookEventsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "bpi_webhook_events_total",
		Help: "Payment gateway webhook deliveries by event and outcome.",
	}, []string{"event", "outcome"})

	RevenueRecordedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "bpi_revenue_recorded_total",
		Help: "Revenue transactions recorded by source.",
	}, []string{"source"})

	WalletOperationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "bpi_wallet_operations_total",
		Help: "Wallet operations by operation and outcome.",
	}, []string{"operation", "outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveWalletOperation counts one wallet operation by its result.
func ObserveWalletOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	WalletOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
