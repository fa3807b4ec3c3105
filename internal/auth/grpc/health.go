package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"mimoapp/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// WatchDatabase keeps the overall and TokenService health status in step
// with database reachability until ctx is cancelled.
func WatchDatabase(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		if err := db.Ping(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		cancel()

		if status != last {
			logger.Info(ctx, "health status changed", "status", status.String())
			hs.SetServingStatus("", status)
			hs.SetServingStatus(ServiceName, status)
			last = status
		}

		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
