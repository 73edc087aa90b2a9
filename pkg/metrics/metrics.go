package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bitebuddy"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	registrations   prometheus.Counter
	logins          *prometheus.CounterVec
	ordersPlaced    prometheus.Counter
	orderAmount     prometheus.Histogram
	cartMutations   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "registrations_total",
			Help: "Accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_placed_total",
			Help: "Orders successfully placed.",
		}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "order_amount",
			Help:    "Order totals in rupees.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000},
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cart_mutations_total",
			Help: "Cart changes by action.",
		}, []string{"action"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.registrations, m.logins,
		m.ordersPlaced, m.orderAmount,
		m.cartMutations,
	)
	return m
}

// Middleware records request counts and latency using the matched route
// template, which keeps label cardinality low.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registered() {
	m.registrations.Inc()
}

func (m *Metrics) Login(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OrderPlaced(total float64) {
	m.ordersPlaced.Inc()
	m.orderAmount.Observe(total)
}

func (m *Metrics) CartMutated(action string) {
	m.cartMutations.WithLabelValues(action).Inc()
}
