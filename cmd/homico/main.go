package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/homico/browse/internal/config"
	dbRedis "github.com/homico/browse/internal/db/redis"
	"github.com/homico/browse/internal/domain/catalog"
	logpkg "github.com/homico/browse/internal/logger"
	"github.com/homico/browse/internal/metrics"
	"github.com/homico/browse/internal/repository/listingcache"
	"github.com/homico/browse/internal/transport/backend"
	chiTransport "github.com/homico/browse/internal/transport/chi"
	"github.com/homico/browse/internal/usecase/browse"
	healthuc "github.com/homico/browse/internal/usecase/health"
	listinguc "github.com/homico/browse/internal/usecase/listing"
	"github.com/homico/browse/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting homico browse server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_url", cfg.Backend.BaseURL),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Register browse metrics explicitly (no init())
	metrics.RegisterBrowseMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := backend.New(&backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: time.Duration(cfg.Backend.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Listing source: backend, optionally behind the Redis cache.
	// Pass nil interface (not typed nil pointer!) to health when the cache is off.
	var (
		listings    listinguc.Backend = api
		cachePinger healthuc.CachePinger
	)
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")

		listings = listingcache.New(api, store, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.ListingCacheTotal, logger)
		cachePinger = store
	}

	cat, err := loadCatalog(ctx, cfg.Catalog, api, logger)
	if err != nil {
		logger.Fatal("Failed to load category catalog", zap.Error(err))
	}
	logger.Info("Category catalog loaded", zap.Int("categories", len(cat.Categories())))

	// Use case services
	sessions := browse.NewSessions(browse.SessionsConfig{
		TTL:         time.Duration(cfg.Browse.SessionTTLSec) * time.Second,
		MaxSessions: cfg.Browse.MaxSessions,
		SyncTotal:   metrics.BrowseSyncTotal,
		Active:      metrics.BrowseSessionsActive,
	}, logger)
	go sessions.Run(ctx, time.Duration(cfg.Browse.SweepIntervalSec)*time.Second)

	listingSvc := listinguc.New(listings, listinguc.Config{
		DefaultLimit: cfg.Listing.DefaultPageSize,
		MaxLimit:     cfg.Listing.MaxPageSize,
	})
	healthSvc := healthuc.New(api, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(sessions, listingSvc, cat, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("open_sessions", sessions.Len()))
}

// loadCatalog picks the taxonomy source: backend, a YAML file, or the built-in one.
// A backend failure falls back to the built-in taxonomy.
func loadCatalog(
	ctx context.Context, cfg config.CatalogConfig, api *backend.Client, logger *zap.Logger,
) (*catalog.Catalog, error) {
	switch {
	case cfg.FromBackend:
		cats, err := api.Categories(ctx)
		if err == nil {
			c, err := catalog.New(cats)
			if err == nil {
				return c, nil
			}
			logger.Warn("Backend catalog invalid, using built-in", zap.Error(err))
		} else {
			logger.Warn("Backend catalog unavailable, using built-in", zap.Error(err))
		}
		return catalog.Default()
	case cfg.Path != "":
		data, err := os.ReadFile(filepath.Clean(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", cfg.Path, err)
		}
		return catalog.Parse(data)
	default:
		return catalog.Default()
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
