package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the service's Prometheus metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	graphqlErrors   *prometheus.CounterVec
	ordersCreated   prometheus.Counter
	orderValue      prometheus.Histogram
}

// NewMetrics creates a private registry with the HTTP and domain metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmacy_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pharmacy_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	graphqlErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmacy_graphql_errors_total",
		Help: "GraphQL resolver errors by error code.",
	}, []string{"code"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pharmacy_orders_created_total",
		Help: "Purchase orders created.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pharmacy_order_final_amount",
		Help:    "Final amount of created purchase orders.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})
	registry.MustRegister(requests, duration, graphqlErrors, ordersCreated, orderValue)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		graphqlErrors:   graphqlErrors,
		ordersCreated:   ordersCreated,
		orderValue:      orderValue,
	}
}

// Handler serves /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records count and latency for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveGraphQLError counts one resolver error.
func (m *Metrics) ObserveGraphQLError(code string) {
	if m == nil {
		return
	}
	m.graphqlErrors.WithLabelValues(code).Inc()
}

// ObserveOrderCreated counts a new order and its final amount.
func (m *Metrics) ObserveOrderCreated(finalAmount float64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderValue.Observe(finalAmount)
}

// Registerer exposes the registry for additional collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
