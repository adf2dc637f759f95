package reporterobs

import (
	"context"
	"time"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/trace"
	"account-monitor/internal/types"
)

type observableReporter struct {
	reporter interfaces.Reporter
}

var _ interfaces.Reporter = (*observableReporter)(nil)

func Wrap(r interfaces.Reporter) interfaces.Reporter {
	return &observableReporter{reporter: r}
}

func (or *observableReporter) Report(ctx context.Context, payload types.ReportPayload) error {
	ctx, span := trace.StartSpan(ctx, "reporter.Report")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "Delivering account update", "account_id", payload.ID)

	if err := or.reporter.Report(ctx, payload); err != nil {
		span.RecordError(err)
		logger.DebugSkip(ctx, 1, "Account update not delivered",
			"account_id", payload.ID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	logger.DebugSkip(ctx, 1, "Account update delivered",
		"account_id", payload.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
