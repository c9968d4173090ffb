// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package design provides the core design service for DesignStudio.
//
// This package contains the main Service type that coordinates all
// components of the service: HTTP routing, Badger persistence, the
// collaboration hub, the AI design generator, and observability
// infrastructure.
//
// # Usage
//
//	cfg := design.Config{Port: 12310, DataDir: "./data"}
//	svc, err := design.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
package design

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/designstudio/designstudio/services/design/ai"
	"github.com/designstudio/designstudio/services/design/collab"
	"github.com/designstudio/designstudio/services/design/observability"
	"github.com/designstudio/designstudio/services/design/routes"
	"github.com/designstudio/designstudio/services/design/store"
)

// Service defines the contract for the design service.
//
// Service abstracts the service lifecycle, enabling testing and
// alternative implementations. Run() blocks and should only be called
// once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	//
	// The server stops on SIGINT/SIGTERM with a bounded graceful
	// shutdown; all resources are released before Run returns.
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// Should not be used to modify routes after construction.
	Router() *gin.Engine

	// Close releases all resources without running the server.
	//
	// Run performs the same cleanup itself; Close is for callers that
	// only used the Router.
	Close()
}

// Config holds design service configuration options.
//
// Values can be populated from environment variables, config files, or
// programmatically for testing. All fields have usable defaults except
// DataDir, which is required unless InMemory is set.
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// DataDir is the Badger database directory. Created if missing.
	DataDir string

	// InMemory runs the store without touching disk. For testing.
	InMemory bool

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// If empty, tracing is disabled.
	OTelEndpoint string

	// EnableMetrics enables the Prometheus /metrics endpoint.
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// Logger is the structured logger. Default: slog.Default()
	Logger *slog.Logger
}

// service implements Service for production use.
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	logger        *slog.Logger
	router        *gin.Engine
	db            *store.DB
	store         *store.Store
	hub           *collab.Hub
	aiService     *ai.Service
	tracerCleanup func(context.Context)
}

// New creates a design Service with the given configuration.
//
// New initializes all components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing (if an endpoint is configured)
//  3. Initializes Prometheus metrics (if enabled)
//  4. Opens the Badger store
//  5. Starts the collaboration hub
//  6. Builds the AI service (skipped without an API key)
//  7. Sets up HTTP routes
//
// The AI endpoints are absent when no OpenAI key is available; the
// rest of the service runs normally.
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}
	s.logger = s.config.Logger

	if s.config.OTelEndpoint != "" {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	var metrics *observability.Metrics
	if s.config.EnableMetrics {
		metrics = observability.InitMetrics()
		s.logger.Info("initialized Prometheus metrics")
	}

	if err := s.initStore(metrics); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s.hub = collab.NewHub(s.logger, metrics)

	// AI generation is optional. Without a key the service still
	// serves projects, files, collaboration, and export.
	aiService, err := ai.NewService(s.logger)
	if err != nil {
		s.logger.Warn("AI design generation disabled", "error", err)
	} else {
		s.aiService = aiService
	}

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting design server", "port", s.config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Close releases all resources held by the service.
func (s *service) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("store close error", "error", err)
		}
		s.db = nil
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
		s.tracerCleanup = nil
	}
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.DataDir == "" && !cfg.InMemory {
		cfg.DataDir = "./data/designstudio"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Sets up an OTLP trace exporter sending spans to the configured
// collector over an insecure gRPC connection (appropriate for internal
// networks). Returns a cleanup function to call on shutdown.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("design-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initStore opens the Badger database and builds the store.
func (s *service) initStore(metrics *observability.Metrics) error {
	var storeCfg store.Config
	if s.config.InMemory {
		storeCfg = store.InMemoryConfig()
	} else {
		storeCfg = store.DefaultConfig(s.config.DataDir)
	}
	storeCfg.Logger = s.logger

	db, err := store.OpenDB(storeCfg)
	if err != nil {
		return err
	}
	s.db = db
	s.store = store.NewStore(db, s.logger, metrics)
	s.logger.Info("store opened", "dir", s.config.DataDir, "in_memory", s.config.InMemory)
	return nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	if s.config.OTelEndpoint != "" {
		s.router.Use(otelgin.Middleware("design-service"))
	}
	if s.config.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	routes.SetupRoutes(s.router, s.store, s.hub, s.aiService)
}

var _ Service = (*service)(nil)
