package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(snapshotOps.WithLabelValues("create", "error"))
	ObserveOperation("create", errors.New("x"), time.Millisecond)
	if got := testutil.ToFloat64(snapshotOps.WithLabelValues("create", "error")); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}

func TestAddRows(t *testing.T) {
	before := testutil.ToFloat64(rowsIngested.WithLabelValues("order_data"))
	AddRows("order_data", 3)
	AddRows("order_data", 0)
	if got := testutil.ToFloat64(rowsIngested.WithLabelValues("order_data")); got != before+3 {
		t.Fatalf("counter = %v, want %v", got, before+3)
	}
}

func TestMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/snapshots/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/snapshots/:id", http.MethodGet, "404"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots/5", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("/api/snapshots/:id", http.MethodGet, "404")); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}
