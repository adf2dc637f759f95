// Package eod writes a per-account CSV summary of each day's journal.
package eod

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"account-monitor/internal/reportlog"
)

type eodSummarizer struct {
	now func() time.Time
}

func CSVPath(t time.Time) string {
	return filepath.Join(reportlog.Dir(), "eod", t.Format("2006-01-02")+".csv")
}

// SummarizeDay aggregates the journal of t's day per account. It returns
// an empty path when nothing was journaled that day.
func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	entries, err := reportlog.ReadDay(t)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	rows := map[int64]*summaryRow{}
	for _, e := range entries {
		r := rows[e.ID]
		if r == nil {
			r = &summaryRow{ID: e.ID, OpenBalance: e.Balance}
			rows[e.ID] = r
		}
		r.Broker = e.Broker
		r.Platform = e.Platform
		r.Cycles++
		r.CloseBalance = e.Balance
		r.CloseEquity = e.Equity
		r.CloseGrowth = e.Growth
		r.ProfitTotal = e.ProfitTotal
	}

	out := make([]*summaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	path := CSVPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&out, f); err != nil {
		return "", err
	}
	return path, nil
}

func (s *eodSummarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(s.now())
}

func (s *eodSummarizer) SummarizePreviousDay() (string, error) {
	return s.SummarizeDay(PreviousDay(s.now()))
}

// ShouldRunNow reports whether the previous day's CSV is missing or older
// than that day's journal, which also covers a partial summary written at
// shutdown. Days without a journal never need a summary.
func (s *eodSummarizer) ShouldRunNow() (bool, string) {
	day := PreviousDay(s.now())
	path := CSVPath(day)

	journal, err := os.Stat(reportlog.DailyFilepath(day))
	if err != nil {
		return false, path
	}
	summary, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, path
	}
	if err != nil {
		return false, path
	}
	return summary.ModTime().Before(journal.ModTime()), path
}

// PreviousDay is the calendar day before t, in t's location.
func PreviousDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, t.Location())
}
