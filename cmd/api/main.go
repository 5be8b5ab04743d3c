// Package main implements the showroom API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/WessleyAI/showroom/engine/activity"
	"github.com/WessleyAI/showroom/engine/dataset"
	"github.com/WessleyAI/showroom/pkg/metrics"
	"github.com/WessleyAI/showroom/pkg/mid"
	"github.com/WessleyAI/showroom/pkg/natsutil"
	"github.com/WessleyAI/showroom/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port           string
	CORSOrigin     string
	NATSURL        string
	DatasetPath    string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
}

func loadConfig() Config {
	return Config{
		Port:           envOr("PORT", "8080"),
		CORSOrigin:     envOr("CORS_ORIGIN", "*"),
		NATSURL:        os.Getenv("NATS_URL"),
		DatasetPath:    os.Getenv("DATASET_PATH"),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 40),
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func main() {
	cfg := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Load catalog ---
	data, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	m := metrics.New()
	m.CatalogSize.Set(float64(len(data.Vehicles())))
	logger.Info("catalog loaded", "vehicles", len(data.Vehicles()), "dealerships", len(data.Dealerships()))

	// --- Activity, shared over NATS when configured ---
	tracker, closeNATS := buildTracker(cfg, m, logger)
	defer closeNATS()

	// --- Build HTTP server ---
	srv := newServer(data, tracker, m, logger)
	limiter := resilience.NewKeyedLimiter(resilience.LimiterOpts{
		Rate:    cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
		IdleTTL: 10 * time.Minute,
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      withMiddleware(srv.routes(), cfg, limiter, m, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

// withMiddleware wraps the mux. RequestID runs first so the recovery and
// request logs both carry the ID; Metrics wraps the mux directly to read the
// matched pattern.
func withMiddleware(mux http.Handler, cfg Config, limiter *resilience.KeyedLimiter, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	return mid.Chain(mux,
		mid.RequestID(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(limiter, m, logger),
		mid.OTel("showroom-api"),
		mid.Metrics(m),
	)
}

// buildTracker returns a tracker publishing to NATS when cfg.NATSURL is set.
// An unreachable broker is logged and the tracker stays local.
func buildTracker(cfg Config, m *metrics.Metrics, logger *slog.Logger) (*activity.Tracker, func()) {
	if cfg.NATSURL == "" {
		return activity.NewTracker(nil, logger), func() {}
	}
	nc, err := natsutil.Connect(cfg.NATSURL, "showroom-api", logger)
	if err != nil {
		logger.Warn("nats unavailable, activity stays local", "err", err)
		return activity.NewTracker(nil, logger), func() {}
	}
	tracker := activity.NewTracker(activity.NewNATSPublisher(nc, resilience.DefaultBreakerOpts, m, logger), logger)
	if _, err := tracker.Listen(nc); err != nil {
		logger.Warn("activity listen failed", "err", err)
	}
	if _, err := tracker.Serve(nc); err != nil {
		logger.Warn("activity serve failed", "err", err)
	}
	logger.Info("activity shared over nats", "url", nc.ConnectedUrl(), "origin", tracker.Origin())
	return tracker, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("nats drain", "err", err)
		}
	}
}
