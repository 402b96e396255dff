// Package metrics owns the Prometheus collectors of the server.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"petshop_back_end/internal/checkout"
)

const namespace = "petshop"

// Registry owns a private Prometheus registry and the service collectors.
type Registry struct {
	reg *prometheus.Registry

	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	Checkouts       *prometheus.CounterVec
	CheckoutLatency prometheus.Histogram
	Revenue         prometheus.Counter
}

// New builds a registry with the Go runtime and process collectors plus
// the HTTP and checkout metrics.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		CheckoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "duration_ms",
			Help:      "Checkout latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "revenue_total",
			Help:      "Sum of committed order totals.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Requests, r.LatencyMS, r.Checkouts, r.CheckoutLatency, r.Revenue,
	)
	return r
}

// RegisterDB exposes connection pool statistics of db.
func (r *Registry) RegisterDB(db *sql.DB, name string) {
	r.reg.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(handler, method string, status int, elapsed time.Duration) {
	r.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	r.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

// ObserveCheckout records one checkout attempt. Revenue only grows for
// committed orders.
func (r *Registry) ObserveCheckout(outcome string, elapsed time.Duration, total decimal.Decimal) {
	r.Checkouts.WithLabelValues(outcome).Inc()
	r.CheckoutLatency.Observe(float64(elapsed.Milliseconds()))
	if outcome == checkout.OutcomeOK {
		r.Revenue.Add(total.InexactFloat64())
	}
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
