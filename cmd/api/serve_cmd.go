package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadp "backlog-snapshot-api/internal/adapter/http"
	"backlog-snapshot-api/internal/adapter/middleware"
	"backlog-snapshot-api/internal/adapter/repository/gormrepo"
	"backlog-snapshot-api/internal/infrastructure/cache"
	"backlog-snapshot-api/internal/ingest"
	snapshotuc "backlog-snapshot-api/internal/usecase/snapshot"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var rdb *redis.Client
	if a.cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(a.cfg.RedisAddr, a.cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	schemas := ingest.NewRegistry(a.cfg.FiscalYear)
	uc := snapshotuc.NewUsecase(gormrepo.NewGormUoW(a.db, a.cfg.InsertBatchSize), schemas, a.log)

	e := httpadp.NewServer(httpadp.ServerOptions{
		Log:          a.log,
		AllowOrigins: a.cfg.CORSAllowOrigins,
		BodyLimit:    a.cfg.BodyLimit(),
	})
	httpadp.Register(e, httpadp.Routes{
		Health:      httpadp.NewHandler(),
		Snapshots:   httpadp.NewSnapshotHandler(uc, schemas),
		Auth:        middleware.NewAuthenticator(a.cfg.JWTSecret, a.cfg.JWTAudience),
		PublicReads: a.cfg.PublicReads,
		Redis:       rdb,
		IdempTTL:    time.Duration(a.cfg.IdempTTLSecs) * time.Second,
		Log:         a.log,
	})

	addr := ":" + a.cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
