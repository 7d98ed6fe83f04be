// Package app wires the catalog service together.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/xmlcatalog/internal/config"
	"github.com/abgdnv/xmlcatalog/internal/service"
	"github.com/abgdnv/xmlcatalog/internal/store"
	grpcImpl "github.com/abgdnv/xmlcatalog/internal/transport/grpc"
	"github.com/abgdnv/xmlcatalog/internal/transport/rest"
	"github.com/abgdnv/xmlcatalog/internal/transport/soap"
	"github.com/abgdnv/xmlcatalog/pkg/messaging"
	"github.com/abgdnv/xmlcatalog/pkg/server"
	"github.com/abgdnv/xmlcatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

// ServiceName identifies the service in telemetry and is the config env prefix.
const ServiceName = "catalog"

type Dependencies struct {
	CatalogService service.CatalogService
	Store          store.CatalogStore
	Logger         *slog.Logger
	// StaticDir is served at / when set.
	StaticDir string
	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
}

func SetupDependencies(catalogStore store.CatalogStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		CatalogService: service.NewService(catalogStore, publisher),
		Store:          catalogStore,
		Logger:         logger,
	}
}

// SetupHttpHandler builds the router with every HTTP route of the service.
// Used by E2E tests to run the service in an httptest.Server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(ServiceName, deps.Logger, web.DefaultCORSConfig())
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes mounts the REST API, the SOAP endpoint, metrics and the static front-end.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewHandler(deps.CatalogService, deps.Logger).RegisterRoutes(mux)

	soapHandler := soap.NewHandler(deps.CatalogService, deps.Logger)
	soapHandler.RegisterRoutes(mux)

	if deps.MetricsHandler != nil {
		mux.Handle(deps.MetricsPath, deps.MetricsHandler)
	}

	var root http.Handler = http.NotFoundHandler()
	if deps.StaticDir != "" {
		root = http.FileServer(http.Dir(deps.StaticDir))
	}
	root = soapHandler.WithWSDL(root)
	mux.Get("/", root.ServeHTTP)
	mux.Get("/*", root.ServeHTTP)
}

// SetupHttpServer creates and configures the HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupHealth creates the gRPC health server probing the catalog file.
func SetupHealth(deps *Dependencies, cfg *config.Config) *grpcImpl.HealthServer {
	probe := grpcImpl.ProbeFunc(func(ctx context.Context) error {
		_, err := deps.Store.Load(ctx)
		return err
	})
	return grpcImpl.NewHealthServer(probe, cfg.GRPC.ProbeInterval, deps.Logger)
}

// SetupGrpcServer initializes the gRPC server carrying the health service.
func SetupGrpcServer(deps *Dependencies, health *grpcImpl.HealthServer, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, health.Register)
}
