package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snapshot",
		Name:      "operations_total",
		Help:      "Snapshot operations broken down by operation and result.",
	}, []string{"operation", "result"})

	snapshotOpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snapshot",
		Name:      "operation_duration_seconds",
		Help:      "Latency of snapshot operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	rowsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snapshot",
		Name:      "rows_ingested_total",
		Help:      "Rows written to child tables, per table.",
	}, []string{"table"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// ObserveOperation records the outcome and latency of a snapshot operation.
func ObserveOperation(op string, err error, took time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	snapshotOps.WithLabelValues(op, result).Inc()
	snapshotOpLatency.WithLabelValues(op).Observe(took.Seconds())
}

func AddRows(table string, n int) {
	if n > 0 {
		rowsIngested.WithLabelValues(table).Add(float64(n))
	}
}

// Middleware counts requests per matched route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Response().Status)).Inc()
			httpLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
