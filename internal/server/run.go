package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/artifact"
	"github.com/iwvelando/loan-report/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type closableStore interface {
	artifact.Store
	io.Closer
}

// newStore builds the artifact store selected by cfg.
func newStore(logger *zap.Logger, cfg StoreConfig) closableStore {
	if cfg.Backend == StoreRedis {
		return artifact.NewRedisStore(logger, cfg.RedisAddress, cfg.TTL)
	}
	return artifact.NewMemoryStore(cfg.TTL, cfg.MaxEntries)
}

// Run serves the API on cfg.Address until ctx is cancelled, then shuts the
// server down gracefully and releases the store and the rate limiter.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := newStore(logger, cfg.Store)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close artifact store",
				zap.String("op", "server.Run"),
				zap.Error(err),
			)
		}
	}()

	var limiter *RateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		defer limiter.Stop()
	}

	handler := NewHandler(logger, Options{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		Store:         store,
		Renderer: report.NewRenderer(logger, report.Config{
			FontStylesheet: cfg.Report.FontStylesheet,
			CurrencySymbol: cfg.Report.CurrencySymbol,
		}),
		Appraisal: appraisal.Options{
			DiscountRate: cfg.Appraisal.DiscountRate,
			MinHorizon:   cfg.Appraisal.MinHorizon,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
			zap.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP server",
			zap.String("op", "server.Run"),
		)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
