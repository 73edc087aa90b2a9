package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthServer exposes the standard gRPC health service for the shop so that
// load balancers and orchestrators can probe it on a dedicated port.
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	service string
	logger  *zap.Logger
}

func NewHealthServer(service string, logger *zap.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		server:  srv,
		health:  hs,
		service: service,
		logger:  logger,
	}
}

// Check pings every dependency and publishes SERVING only if all respond.
func (s *HealthServer) Check(ctx context.Context, deps map[string]Pinger) bool {
	healthy := true
	for name, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			s.logger.Warn("Dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			healthy = false
		}
	}
	s.SetServing(healthy)
	return healthy
}

// Watch runs Check immediately and then every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, deps map[string]Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		s.Check(checkCtx, deps)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

func (s *HealthServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.logger.Info("gRPC health server started", zap.String("address", addr))
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
