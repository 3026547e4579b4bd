package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the portal as a whole.
const ServiceName = "portal.v1.Portal"

// Pinger is any backend that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthChecker struct {
	health  *health.Server
	pingers map[string]Pinger
	timeout time.Duration
	logger  *slog.Logger
}

func NewHealthChecker(logger *slog.Logger, pingers map[string]Pinger) *HealthChecker {
	h := &HealthChecker{
		health:  health.NewServer(),
		pingers: pingers,
		timeout: 3 * time.Second,
		logger:  logger,
	}
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return h
}

// Check pings every backend and publishes the combined status.
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.pingers))
	for name := range h.pingers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := h.pingers[name].Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	err := errors.Join(errs...)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("Backend unhealthy", slog.String("error", err.Error()))
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)

	return err
}

// Run re-checks the backends every interval until ctx is done.
func (h *HealthChecker) Run(ctx context.Context, interval time.Duration) {
	_ = h.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			_ = h.Check(ctx)
		}
	}
}

// NewServer builds the gRPC server exposing the health and reflection services.
func NewServer(h *HealthChecker, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)

	return s
}
