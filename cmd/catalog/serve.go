package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/xmlcatalog/internal/app"
	"github.com/abgdnv/xmlcatalog/internal/config"
	"github.com/abgdnv/xmlcatalog/internal/store"
	"github.com/abgdnv/xmlcatalog/pkg/bootstrap"
	"github.com/abgdnv/xmlcatalog/pkg/config/configloader"
	"github.com/abgdnv/xmlcatalog/pkg/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Run the SOAP, REST and gRPC health endpoints",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configloader.Load[*config.Config](app.ServiceName, opts.sources())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.catalogFile != "" {
				cfg.Catalog.File = opts.catalogFile
			}
			log.Printf("Configuration loaded: %v", cfg)
			if err := run(cmd.Context(), cfg); err != nil {
				return err
			}
			log.Println("application stopped gracefully")
			return nil
		},
	}
}

// run starts the HTTP, gRPC and pprof servers and blocks until ctx is cancelled or one of them fails.
func run(ctx context.Context, cfg *config.Config) error {
	logger := bootstrap.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, app.ServiceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down tracer provider", "error", err)
			}
		}()
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		var err error
		metrics, err = telemetry.NewMetrics(app.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to create meter provider: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down meter provider", "error", err)
			}
		}()
	}

	catalogStore := store.NewFileStore(cfg.Catalog.File)
	if cfg.Catalog.Create {
		created, err := catalogStore.Init(ctx)
		if err != nil {
			return fmt.Errorf("failed to create catalog: %w", err)
		}
		if created {
			logger.Info("Created empty catalog", "file", catalogStore.Path())
		}
	}

	publisher, closePublisher, err := bootstrap.NewPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer closePublisher()

	deps := app.SetupDependencies(catalogStore, publisher, logger)
	deps.StaticDir = cfg.Catalog.StaticDir
	if metrics != nil {
		deps.MetricsHandler = metrics.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}
	httpServer := app.SetupHttpServer(deps, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr), slog.String("catalog", catalogStore.Path()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Enabled {
		health := app.SetupHealth(deps, cfg)
		grpcServer := app.SetupGrpcServer(deps, health, cfg.GRPC.ReflectionEnabled)

		g.Go(func() error {
			return health.Run(gCtx)
		})
		// Start the gRPC server
		g.Go(func() error {
			grpcAddr := ":" + cfg.GRPC.Port
			lis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				return fmt.Errorf("failed to listen on gRPC port: %w", err)
			}
			logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
			return grpcServer.Serve(lis)
		})
		// gracefully shutdown gRPC server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down gRPC server...")
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
				logger.Info("gRPC server stopped gracefully.")
				return nil
			case <-time.After(cfg.Shutdown.Timeout):
				logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
				grpcServer.Stop()
				return fmt.Errorf("grpc server graceful stop timed out")
			}
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{
			Addr:              cfg.PProf.Addr,
			ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
		}
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
