package terminalobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/trace"
	"account-monitor/internal/types"
)

// observableTerminal wraps a Terminal with logging and tracing
type observableTerminal struct {
	terminal interfaces.Terminal
}

var _ interfaces.Terminal = (*observableTerminal)(nil)

func Wrap(terminal interfaces.Terminal) interfaces.Terminal {
	return &observableTerminal{terminal: terminal}
}

func (ot *observableTerminal) Connect(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "terminal.Connect")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Connecting to terminal")

	if err := ot.terminal.Connect(ctx); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to connect to terminal", err)
		return fmt.Errorf("terminal connect failed: %w", err)
	}

	logger.InfoSkip(ctx, 1, "Terminal connected")
	return nil
}

// Read failures are left to the monitor, which skips or degrades the cycle
func (ot *observableTerminal) AccountInfo(ctx context.Context) (*types.AccountSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "terminal.AccountInfo")
	defer span.End()

	acct, err := ot.terminal.AccountInfo(ctx)
	switch {
	case errors.Is(err, interfaces.ErrNoSession):
		logger.DebugSkip(ctx, 1, "No terminal session")
		return nil, err
	case err != nil:
		span.RecordError(err)
		logger.DebugSkip(ctx, 1, "Failed to read account info", "error", err)
		return nil, err
	case acct == nil:
		logger.DebugSkip(ctx, 1, "No account logged in")
		return nil, nil
	}

	logger.DebugSkip(ctx, 1, "Account info fetched",
		"account_id", acct.ID,
		"balance", acct.Balance,
		"equity", acct.Equity,
	)
	return acct, nil
}

func (ot *observableTerminal) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	ctx, span := trace.StartSpan(ctx, "terminal.HistoryDeals")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching deal history", "from", from, "to", to)

	deals, err := ot.terminal.HistoryDeals(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		logger.DebugSkip(ctx, 1, "Failed to fetch deal history", "error", err, "from", from, "to", to)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Deal history fetched", "count", len(deals))
	return deals, nil
}

func (ot *observableTerminal) Close(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "terminal.Close")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Closing terminal")
	ot.terminal.Close(ctx)
	logger.InfoSkip(ctx, 1, "Terminal closed")
}
