package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/auth"
	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/config"
	"github.com/KpG782/qr-registration/internal/storage"
	transporthttp "github.com/KpG782/qr-registration/internal/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	startupTimeout   = 5 * time.Second
	shutdownTimeout  = 10 * time.Second
	rateLimitIdleTTL = 10 * time.Minute
)

func newServeCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger)
		},
	}
}

func runServe(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.FromEnv(logger)
	if err != nil {
		return err
	}

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	store, err := storage.Open(startupCtx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("storage close error: %v", err)
		}
	}()

	rdb := connectRedis(startupCtx, cfg.RedisAddr, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem()
	admin := app.NewAdminService(store, clk)
	deps := transporthttp.Deps{
		Events:         admin,
		Categories:     admin,
		Participants:   app.NewParticipantService(store, clk),
		CheckIn:        app.NewCheckInService(store, clk),
		Stats:          app.NewStatsService(store),
		PublicBaseURL:  cfg.PublicBaseURL,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
		CacheTTL:       cfg.StatsCacheTTL,
	}
	deps.CheckInLimiter = transporthttp.NewRateLimiter(stopCtx, transporthttp.LimiterConfig{
		RPS:     cfg.CheckInRPS,
		Burst:   cfg.CheckInBurst,
		IdleTTL: rateLimitIdleTTL,
	})
	if rdb != nil {
		deps.Redis = rdb
	}
	if cfg.OrganizerJWTSecret != "" {
		deps.Verifier = auth.NewIssuer(cfg.OrganizerJWTSecret)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           transporthttp.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		logger.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("server shutdown error: %v", err)
	}
	logger.Printf("server stopped")
	return nil
}

// connectRedis returns nil when no address is configured or the server is unreachable;
// the API then runs without the response cache.
func connectRedis(ctx context.Context, addr string, logger *log.Logger) *redis.Client {
	if addr == "" {
		logger.Printf("WARN: REDIS_ADDR not set, response cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Printf("WARN: redis %s unreachable, response cache disabled: %v", addr, err)
		_ = rdb.Close()
		return nil
	}
	logger.Printf("response cache enabled redis=%s", addr)
	return rdb
}
