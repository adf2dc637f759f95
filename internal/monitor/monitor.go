// Package monitor runs the polling cycle: read the terminal, recompute
// the statistics from the full history and deliver one payload.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"account-monitor/internal/growth"
	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/reportlog"
	"account-monitor/internal/stats"
	"account-monitor/internal/store"
	"account-monitor/internal/types"
)

type Monitor struct {
	cfg      *store.Config
	terminal interfaces.Terminal
	reporter interfaces.Reporter
	now      func() time.Time
	journal  func(time.Time, types.ReportPayload) error
}

var _ interfaces.Monitor = (*Monitor)(nil)

type Option func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithJournal overrides where delivered payloads are journaled. fn gets
// the cycle time from the monitor's clock.
func WithJournal(fn func(time.Time, types.ReportPayload) error) Option {
	return func(m *Monitor) { m.journal = fn }
}

func New(cfg *store.Config, terminal interfaces.Terminal, reporter interfaces.Reporter, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:      cfg,
		terminal: terminal,
		reporter: reporter,
		now:      time.Now,
		journal:  reportlog.AppendAt,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Step runs one cycle. It returns a nil result when the account cannot be
// read. A failed delivery is reported in the result, not as an error.
func (m *Monitor) Step(ctx context.Context) (*types.CycleResult, error) {
	acct, err := m.terminal.AccountInfo(ctx)
	switch {
	case errors.Is(err, interfaces.ErrNoSession) || (err == nil && acct == nil):
		logger.Debug(ctx, "No active account, skipping cycle")
		return nil, nil
	case err != nil:
		logger.Debug(ctx, "Account unavailable, skipping cycle", "error", err)
		return nil, nil
	}

	now := m.now()
	res := &types.CycleResult{
		CycleID:   uuid.NewString(),
		AccountID: acct.ID,
		Time:      now,
	}

	deals := m.history(ctx, now)
	res.Deals = len(deals)

	snapshot := stats.Aggregate(deals, now)
	payload, g := growth.BuildPayload(*acct, snapshot, m.cfg.Platform)
	res.Payload = payload
	res.Investment = g.Investment
	res.Growth = g.GrowthPercent

	if err := m.reporter.Report(ctx, payload); err != nil {
		logger.Warn(ctx, "Failed to deliver account update", "account_id", acct.ID, "error", err)
		res.Error = err.Error()
		return res, nil
	}
	res.Delivered = true

	logger.Report(ctx, acct.ID, g.GrowthPercent, g.Investment,
		"cycle_id", res.CycleID,
		"balance", payload.Balance,
		"equity", payload.Equity,
		"deals", res.Deals,
	)

	if m.cfg.Journal.Enabled {
		if err := m.journal(now, payload); err != nil {
			logger.Warn(ctx, "Failed to journal account update", "account_id", acct.ID, "error", err)
		}
	}
	return res, nil
}

// history treats a failed fetch as an empty history for this cycle.
func (m *Monitor) history(ctx context.Context, now time.Time) []types.Deal {
	from, err := m.cfg.HistoryStart()
	if err != nil {
		logger.Warn(ctx, "Invalid history start, using empty history", "error", err)
		return nil
	}
	deals, err := m.terminal.HistoryDeals(ctx, from, now)
	if err != nil {
		logger.Warn(ctx, "Failed to fetch deal history, using empty history", "error", err)
		return nil
	}
	return deals
}

// Run calls step every poll interval until ctx is cancelled. Cycle
// failures never stop the loop; reporting them is left to the monitor's
// decorator.
func Run(ctx context.Context, mon interfaces.Monitor, interval time.Duration) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = mon.Step(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}

// Run loops over this monitor's own Step.
func (m *Monitor) Run(ctx context.Context) error {
	return Run(ctx, m, m.cfg.PollInterval())
}
