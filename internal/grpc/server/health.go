// Package server exposes the gRPC health protocol of the API. The reported
// status follows the reachability of the database.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/room-management/internal/lib/sl"
)

// ServiceName is the health service name of the API next to the overall "" entry.
const ServiceName = "room-management"

const probeTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer is a grpc health server driven by database pings.
type HealthServer struct {
	*health.Server
	db       Pinger
	interval time.Duration
	log      *slog.Logger
}

func NewHealthServer(db Pinger, interval time.Duration, log *slog.Logger) *HealthServer {
	return &HealthServer{
		Server:   health.NewServer(),
		db:       db,
		interval: interval,
		log:      log,
	}
}

// Register attaches the health service to g.
func (s *HealthServer) Register(g *grpc.Server) {
	healthpb.RegisterHealthServer(g, s.Server)
}

// Watch probes the database every interval until ctx is done and then
// switches every service to NOT_SERVING for good.
func (s *HealthServer) Watch(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Probe pings the database once and publishes the result.
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(pctx); err != nil {
		s.log.Warn("health probe failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.SetServingStatus("", status)
	s.SetServingStatus(ServiceName, status)
	return status
}
