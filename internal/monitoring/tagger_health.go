package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

// HealthChecker is a remote dependency that can report readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// MonitorTaggerHealth polls checker every interval until ctx is done and
// stores the latest result in healthy. The first check runs immediately.
func MonitorTaggerHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		isHealthy := checker.HealthCheck(checkCtx)
		healthy.Store(isHealthy)
		if !isHealthy {
			slog.Warn("[HealthCheck] Tagger is unhealthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
