package interfaces

import (
	"context"
	"errors"
	"time"

	"account-monitor/internal/types"
)

// ErrNoSession is returned when the terminal has no logged-in account.
var ErrNoSession = errors.New("terminal: no active session")

// Terminal is the trading-terminal collaborator. AccountInfo returns a nil
// snapshot (or ErrNoSession) when no session is active.
type Terminal interface {
	Connect(ctx context.Context) error
	AccountInfo(ctx context.Context) (*types.AccountSnapshot, error)
	HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error)
	Close(ctx context.Context)
}
