// Package grpc serves the catalog health over the standard gRPC health protocol.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CatalogServiceName is the service name reported by the health server.
const CatalogServiceName = "catalog"

// Probe reports whether the catalog can be served.
type Probe interface {
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) Check(ctx context.Context) error { return f(ctx) }

type HealthServer struct {
	health   *health.Server
	probe    Probe
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthServer creates a health server that starts out NOT_SERVING until the first probe.
func NewHealthServer(probe Probe, interval time.Duration, logger *slog.Logger) *HealthServer {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(CatalogServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{
		health:   hs,
		probe:    probe,
		interval: interval,
		logger:   logger.With("component", "grpc-health"),
	}
}

// Register adds the health service to a gRPC server.
func (s *HealthServer) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, s.health)
}

// Refresh runs the probe once and publishes the result.
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	servingStatus := healthpb.HealthCheckResponse_SERVING
	if err := s.probe.Check(ctx); err != nil {
		s.logger.WarnContext(ctx, "Catalog probe failed", "error", err)
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", servingStatus)
	s.health.SetServingStatus(CatalogServiceName, servingStatus)
	return servingStatus
}

// Run probes immediately and then on every interval until ctx is done,
// at which point every service is marked NOT_SERVING.
func (s *HealthServer) Run(ctx context.Context) error {
	s.Refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
