package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/arcwise/internal/auth"
	"github.com/mmynk/arcwise/internal/config"
	"github.com/mmynk/arcwise/internal/events"
	"github.com/mmynk/arcwise/internal/ledger"
	"github.com/mmynk/arcwise/internal/metrics"
	"github.com/mmynk/arcwise/internal/middleware"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/payment"
	"github.com/mmynk/arcwise/internal/reminder"
	"github.com/mmynk/arcwise/internal/service"
	"github.com/mmynk/arcwise/internal/settlement"
	"github.com/mmynk/arcwise/internal/storage"
	"github.com/mmynk/arcwise/internal/storage/memory"
	"github.com/mmynk/arcwise/internal/storage/sqlite"
	"github.com/mmynk/arcwise/pkg/api/arcwisev1/arcwisev1connect"
	"github.com/mmynk/arcwise/pkg/logging"
)

const apiPrefix = "/arcwise.v1."

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("app")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.SetupWithLevel(logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	roster, err := models.NewRoster(cfg.Ledger.Roster)
	if err != nil {
		return fmt.Errorf("invalid roster: %w", err)
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.Storage.Driver, "participants", roster.Len())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	publisher, err := openPublisher(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	l := ledger.New(roster, store, ledger.WithMetrics(m))
	recorder := settlement.NewRecorder(store, roster, publisher, m, logger)

	gateway := payment.NewHTTPGateway(cfg.Payment.GatewayURL, cfg.Payment.APIKey, cfg.Payment.Timeout)
	settler, err := settlement.NewSettler(
		gateway,
		payment.StaticAddressBook(cfg.Ledger.Addresses),
		recorder,
		settlement.SettlerConfig{PoolSize: cfg.WorkerPool.Size, DefaultChain: cfg.Payment.DefaultChain},
		m,
		logger,
	)
	if err != nil {
		return err
	}
	defer settler.Shutdown()

	authenticator, err := auth.NewPassphraseAuthenticator(roster, cfg.Auth.SessionPassphrase)
	if err != nil {
		return fmt.Errorf("invalid session passphrase: %w", err)
	}
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	if cfg.Reminder.Enabled {
		scheduler, err := reminder.NewJob(l, publisher, logger).Start(cfg.Reminder.Schedule)
		if err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
		defer func() { <-scheduler.Stop().Done() }()
		logger.Info("Debt reminders scheduled", "schedule", cfg.Reminder.Schedule)
	}

	observed := connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.LoggingInterceptor(logger))
	authenticated := connect.WithInterceptors(middleware.RequireAuth(jwtManager))
	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(arcwisev1connect.NewLedgerServiceHandler(service.NewLedgerService(l, logger), authenticated, observed))
	mux.Handle(arcwisev1connect.NewSettlementServiceHandler(service.NewSettlementService(l, settler, recorder, logger), authenticated, observed))
	mux.Handle(arcwisev1connect.NewSessionServiceHandler(service.NewSessionService(authenticator, jwtManager, logger), optional, observed))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// h2c lets HTTP/2 Connect clients call without TLS. Only the JSON codecs are served.
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "env", cfg.Application.Env)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	}
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageSQLite:
		return sqlite.New(cfg.DBPath)
	default:
		return memory.New(), nil
	}
}

func openPublisher(cfg config.KafkaConfig, logger *slog.Logger) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, events are dropped")
		return events.NopPublisher{}, nil
	}
	return events.NewKafkaPublisher(logger, cfg.Brokers, cfg.Topic, cfg.WriteTimeout)
}

// staticHandler serves the web client. Unknown paths fall back to
// index.html so client-side routes resolve.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
