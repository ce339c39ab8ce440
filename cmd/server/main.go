package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/httprate"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/observability"
	"github.com/mmynk/tripsplit/internal/receipt"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
	"github.com/mmynk/tripsplit/pkg/logging"
)

func main() {
	started := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	metrics := observability.NewMetrics()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	recomputer := ledger.NewRecomputer(store, ledger.WithObserver(metrics))

	settleOpts := calculator.DefaultOptions()
	settleOpts.MaxSearchNodes = cfg.SettlementMaxNodes
	settler := service.NewSettler(settleOpts, metrics)

	var extractor service.ReceiptExtractor
	if cfg.ReceiptsEnabled() {
		gen, err := receipt.NewGeminiGenerator(ctx, cfg.GoogleAPIKey)
		if err != nil {
			slog.Error("Failed to initialize receipt extraction", "error", err)
			os.Exit(1)
		}
		defer gen.Close()
		e := receipt.NewExtractor(gen, receipt.Config{
			Model:     cfg.GeminiModel,
			Fallbacks: cfg.GeminiFallbacks,
			Timeout:   cfg.ReceiptTimeout,
		})
		extractor = e
		slog.Info("Receipt extraction enabled", "models", e.Models())
	} else {
		slog.Warn("GOOGLE_API_KEY not set, receipt extraction disabled")
	}

	if cfg.DevAllowFallback {
		slog.Warn("Development owner fallback enabled", "header", middleware.DevOwnerHeader)
	}

	// Metrics wrap everything; auth runs before logging so the owner is logged.
	authed := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager, middleware.WithDevFallback(cfg.DevAllowFallback)),
		middleware.LoggingInterceptor(),
	)
	public := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.LoggingInterceptor(),
	)
	authService := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager, middleware.WithPublicProcedures(
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		)),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewTripServiceHandler(service.NewTripService(store, recomputer), authed))
	mux.Handle(apiconnect.NewTransactionServiceHandler(service.NewTransactionService(store, recomputer), authed))
	mux.Handle(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(store, settler), authed))
	mux.Handle(apiconnect.NewPublicServiceHandler(service.NewPublicService(store, settler), public))
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, slog.Default()), authService))
	mux.Handle(apiconnect.NewReceiptServiceHandler(service.NewReceiptService(extractor), authed))

	mux.Handle("/health", service.HealthHandler(cfg.AppEnv, store, started))
	mux.Handle("/metrics", metrics.Handler())

	var handler http.Handler = mux
	if cfg.RateLimitPerMinute > 0 {
		handler = httprate.Limit(cfg.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))(handler)
	}
	handler = loggingMiddleware(corsMiddleware(cfg.CORSOrigin, handler))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", cfg.AppAddr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// loggingMiddleware logs every HTTP request at debug level. RPC outcomes are
// logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.DevOwnerHeader+", Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+service.TripClosedHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
