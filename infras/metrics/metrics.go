// Package metrics exposes Prometheus collectors for the HTTP surface and the booking lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shareit"

type Metrics interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
	RecordBookingTransition(status string)
	Handler() http.Handler
}

type Collector struct {
	gatherer           prometheus.Gatherer
	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
	bookingTransitions *prometheus.CounterVec
}

// New registers the collectors on a dedicated registry together with the Go runtime collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewCollector(reg)
}

func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Bookings entering each status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.bookingTransitions,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordBookingTransition(status string) {
	c.bookingTransitions.WithLabelValues(status).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
