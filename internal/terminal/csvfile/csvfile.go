// Package csvfile reads account state and deal history from CSV files
// written by a terminal-side exporter. Both files are re-read on every
// call so the exporter can rewrite them between cycles.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/types"
)

type Params struct {
	AccountPath string
	DealsPath   string
}

type Terminal struct {
	p Params
}

var _ interfaces.Terminal = (*Terminal)(nil)

func New(p Params) *Terminal {
	return &Terminal{p: p}
}

type accountRow struct {
	Login   int64   `csv:"login"`
	Balance float64 `csv:"balance"`
	Equity  float64 `csv:"equity"`
	Company string  `csv:"company"`
}

type dealRow struct {
	Ticket int64   `csv:"ticket"`
	Time   int64   `csv:"time"`
	Type   int     `csv:"type"`
	Entry  int     `csv:"entry"`
	Profit float64 `csv:"profit"`
	Magic  int64   `csv:"magic"`
	Symbol string  `csv:"symbol"`
}

// Connect only verifies the deal export exists; the account file may
// appear later once the terminal logs in.
func (t *Terminal) Connect(ctx context.Context) error {
	if _, err := os.Stat(t.p.DealsPath); err != nil {
		return fmt.Errorf("deals export unavailable: %w", err)
	}
	return nil
}

func (t *Terminal) AccountInfo(ctx context.Context) (*types.AccountSnapshot, error) {
	var rows []*accountRow
	if err := readCSV(t.p.AccountPath, &rows); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 || rows[0].Login == 0 {
		return nil, nil
	}
	r := rows[0]
	return &types.AccountSnapshot{ID: r.Login, Balance: r.Balance, Equity: r.Equity, Broker: r.Company}, nil
}

// HistoryDeals returns the deals with from <= time <= to.
func (t *Terminal) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	var rows []*dealRow
	if err := readCSV(t.p.DealsPath, &rows); err != nil {
		return nil, err
	}

	deals := make([]types.Deal, 0, len(rows))
	for _, r := range rows {
		at := time.Unix(r.Time, 0)
		if at.Before(from) || at.After(to) {
			continue
		}
		deals = append(deals, types.Deal{
			Ticket: r.Ticket,
			Time:   at,
			Kind:   types.ClassifyDeal(r.Type, r.Entry),
			Profit: r.Profit,
			Magic:  r.Magic,
			Symbol: r.Symbol,
		})
	}
	return deals, nil
}

func (t *Terminal) Close(ctx context.Context) {}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// an exporter may truncate the file before rewriting it
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return nil
	}
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
