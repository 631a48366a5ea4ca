package http

import (
	"io"
	"time"

	"backlog-snapshot-api/internal/adapter/middleware"
	"backlog-snapshot-api/internal/infrastructure/logging"
	"backlog-snapshot-api/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ServerOptions struct {
	Log          logrus.FieldLogger
	AllowOrigins []string
	// BodyLimit uses echo's size syntax, e.g. "32M".
	BodyLimit string
}

// NewServer returns an Echo instance with the shared middleware stack,
// validator and envelope error handler installed.
func NewServer(o ServerOptions) *echo.Echo {
	if o.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Log = l
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(o.Log)

	origins := o.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}),
		logging.RequestLogger(o.Log),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: origins}),
	)
	if o.BodyLimit != "" {
		e.Use(echomw.BodyLimit(o.BodyLimit))
	}
	e.Use(metrics.Middleware())
	return e
}

type Routes struct {
	Health    *Handler
	Snapshots *SnapshotHandler
	Auth      *middleware.Authenticator
	// PublicReads lets anonymous callers use the GET endpoints.
	PublicReads bool
	// Redis enables Idempotency-Key handling on admin writes when set.
	Redis    *redis.Client
	IdempTTL time.Duration
	Log      logrus.FieldLogger
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	e.GET("/api", r.Health.Banner)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	read := []echo.MiddlewareFunc{r.Auth.Authenticate(r.PublicReads)}
	write := []echo.MiddlewareFunc{r.Auth.Authenticate(false), middleware.RequireRole(middleware.RoleAdmin)}
	if r.Redis != nil {
		write = append(write, middleware.Idempotency(r.Redis, r.IdempTTL, r.Log))
	}

	h := r.Snapshots
	e.GET("/api/snapshots", h.List, read...)
	e.GET("/api/snapshots/latest", h.Latest, read...)
	e.GET("/api/snapshots/:id", h.Get, read...)

	e.POST("/api/upload", h.Upload, write...)
	e.PATCH("/api/snapshots/:id", h.UpdateDescription, write...)
	e.PATCH("/api/snapshots/:id/tables", h.UpdateTables, write...)
	e.DELETE("/api/snapshots/:id", h.Delete, write...)
}
