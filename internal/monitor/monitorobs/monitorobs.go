package monitorobs

import (
	"context"
	"time"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/trace"
	"account-monitor/internal/types"
)

type observableMonitor struct {
	monitor interfaces.Monitor
}

var _ interfaces.Monitor = (*observableMonitor)(nil)

func Wrap(mon interfaces.Monitor) interfaces.Monitor {
	return &observableMonitor{monitor: mon}
}

func (om *observableMonitor) Step(ctx context.Context) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "monitor.Step")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "Starting monitoring cycle")

	result, err := om.monitor.Step(ctx)
	switch {
	case err != nil:
		logger.ErrorWithErrSkip(ctx, 1, "Monitoring cycle failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	case result == nil:
		logger.DebugSkip(ctx, 1, "Monitoring cycle skipped",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil
	}

	logger.InfoSkip(ctx, 1, "Monitoring cycle completed",
		"cycle_id", result.CycleID,
		"account_id", result.AccountID,
		"deals", result.Deals,
		"growth", result.Growth,
		"delivered", result.Delivered,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
