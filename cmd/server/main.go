package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arl/statsviz"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/automaxprocs/maxprocs"

	appEmployee "github.com/ahrav/employee-hub/internal/application/employee"
	"github.com/ahrav/employee-hub/internal/application/sdk/mux"
	"github.com/ahrav/employee-hub/internal/config"
	"github.com/ahrav/employee-hub/internal/domain/employee"
	httpServer "github.com/ahrav/employee-hub/internal/infra/adapters/http"
	handler "github.com/ahrav/employee-hub/internal/infra/adapters/http/handler"
	"github.com/ahrav/employee-hub/internal/infra/metrics"
	"github.com/ahrav/employee-hub/internal/infra/storage"
	"github.com/ahrav/employee-hub/internal/infra/storage/employee/memory"
	"github.com/ahrav/employee-hub/internal/infra/storage/employee/postgres"
	"github.com/ahrav/employee-hub/pkg/common/logger"
	"github.com/ahrav/employee-hub/pkg/common/otel"
)

var build = "develop"

const startupPingTimeout = 5 * time.Second

// store is what the service and the readiness probe need from a backend.
type store interface {
	employee.Repository
	employee.Pinger
}

func main() {
	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.ServiceName, otel.GetTraceID)

	ctx := context.Background()
	if err := run(ctx, log, cfg); err != nil {
		log.Error(ctx, "startup", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, cfg *config.Configuration) error {
	// -------------------------------------------------------------------------
	// GOMAXPROCS

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Info(ctx, fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn(ctx, "startup", "status", "could not set GOMAXPROCS", "error", err)
	}

	log.Info(ctx, "starting service",
		"version", build,
		"store", cfg.StoreDriver,
		"policy", string(cfg.Policy()),
		"environment", cfg.Environment,
	)

	// -------------------------------------------------------------------------
	// Telemetry

	tp := otel.GetTracerProvider()
	if cfg.Telemetry.Enabled {
		provider, shutdown, err := otel.InitTelemetry(log, otel.Config{
			ServiceName:      cfg.ServiceName,
			ServiceVersion:   build,
			ExporterEndpoint: cfg.Telemetry.ExporterEndpoint,
			Probability:      cfg.Telemetry.SampleProbability,
			InsecureExporter: true,
			ResourceAttributes: map[string]string{
				"deployment.environment": cfg.Environment,
			},
			ExcludedRoutes: map[string]struct{}{
				"/api/v1/health/liveness":  {},
				"/api/v1/health/readiness": {},
			},
		})
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			shutdown(ctx)
		}()
		tp = provider
	}

	registry, err := metrics.NewRegistry(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("creating metrics registry: %w", err)
	}

	// -------------------------------------------------------------------------
	// Store

	repo, closeStore, err := openStore(ctx, log, cfg, tp)
	if err != nil {
		return err
	}
	defer closeStore()

	// -------------------------------------------------------------------------
	// Application

	validator, err := employee.NewValidator(cfg.Policy())
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	employeeService := appEmployee.NewService(
		repo,
		validator,
		registry.Employee,
		log,
		tp.Tracer("employee-hub/employee"),
	)

	employeeHandler := handler.NewEmployeeHandler(employeeService, log, handler.WithStoreErrors(cfg.ExposeErrors))
	serverAdapter := httpServer.NewServerAdapter(employeeHandler)

	api := mux.WrapWithMiddleware(mux.Config{
		Log:            log,
		Pinger:         repo,
		TracerProvider: tp,
		APIMetrics:     registry.API,
		HealthMetrics:  registry.Health,
		RouteName:      serverAdapter.RouteTemplate,
	}, httpServer.NewHTTPServer(serverAdapter), mux.WithCORS(cfg.CORSOrigins))

	// -------------------------------------------------------------------------
	// Debug

	if cfg.DebugAddr != "" {
		go serveDebug(ctx, log, cfg.DebugAddr)
	}

	// -------------------------------------------------------------------------
	// HTTP

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     logger.NewStdLogger(log, logger.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig.String())
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig.String())

		ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// openStore builds the configured employee store. A database that cannot be
// reached or migrated at startup is logged and the service keeps serving;
// requests fail until it recovers.
func openStore(
	ctx context.Context,
	log *logger.Logger,
	cfg *config.Configuration,
	tp trace.TracerProvider,
) (store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Info(ctx, "startup", "status", "using in-memory employee store")
		return memory.NewEmployeeStore(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithTracerProvider(tp))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()

	switch err := pool.Ping(pingCtx); {
	case err != nil:
		log.Error(ctx, "startup", "status", "database unreachable", "error", err)
	case cfg.RunMigrations:
		if err := storage.RunMigrations(ctx, pool); err != nil {
			log.Error(ctx, "startup", "status", "migrations failed", "error", err)
		} else {
			log.Info(ctx, "startup", "status", "migrations applied")
		}
	default:
		log.Info(ctx, "startup", "status", "database connected")
	}

	return postgres.NewEmployeeStore(pool, tp.Tracer("employee-hub/postgres")), pool.Close, nil
}

// serveDebug exposes runtime visualisation on a separate listener.
func serveDebug(ctx context.Context, log *logger.Logger, addr string) {
	debugMux := http.NewServeMux()
	if err := statsviz.Register(debugMux); err != nil {
		log.Error(ctx, "debug", "status", "statsviz registration failed", "error", err)
		return
	}

	log.Info(ctx, "startup", "status", "debug router started", "host", addr)
	if err := http.ListenAndServe(addr, debugMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "debug", "status", "debug router closed", "error", err)
	}
}
