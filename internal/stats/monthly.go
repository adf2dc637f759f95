package stats

import (
	"time"

	"account-monitor/internal/types"
)

// MonthlyHistory buckets closed-trade profit into the n calendar months
// preceding the month of now, most recent first. Months are evaluated in
// now's location.
func MonthlyHistory(deals []types.Deal, now time.Time, n int) []types.MonthlyProfit {
	loc := now.Location()
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	out := make([]types.MonthlyProfit, 0, n)
	for i := 0; i < n; i++ {
		cursor = cursor.AddDate(0, -1, 0)
		out = append(out, types.MonthlyProfit{
			Month:  MonthLabel(cursor.Month()),
			Profit: monthProfit(deals, cursor.Year(), cursor.Month(), loc),
		})
	}
	return out
}

// MonthLabel returns the three-letter English month abbreviation.
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// monthProfit returns nil when the month has no closed trades so that
// "no trades" stays distinguishable from a zero net result.
func monthProfit(deals []types.Deal, year int, month time.Month, loc *time.Location) *float64 {
	var (
		sum   float64
		found bool
	)
	for _, d := range deals {
		if d.Kind != types.DealTradeClose {
			continue
		}
		t := d.Time.In(loc)
		if t.Year() != year || t.Month() != month {
			continue
		}
		sum += d.Profit
		found = true
	}
	if !found {
		return nil
	}
	return &sum
}
