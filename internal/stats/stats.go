// Package stats turns the raw deal history of an account into the
// statistics reported every polling cycle.
package stats

import (
	"math"
	"sort"
	"time"

	"account-monitor/internal/types"
)

const (
	// HistoryMonths is the number of completed months in monthly_history.
	HistoryMonths = 3
	// MaxActivity caps the reported closed-trade count.
	MaxActivity = 100
)

// Aggregate walks the deals in chronological order and derives the
// statistics snapshot. It returns nil for an empty history; callers
// substitute zero defaults at the reporting boundary.
func Aggregate(deals []types.Deal, now time.Time) *types.StatisticsSnapshot {
	if len(deals) == 0 {
		return nil
	}

	sorted := SortDeals(deals)

	var (
		s                 types.StatisticsSnapshot
		firstDepositFound bool
		winCount          int
		algoCount         int
	)

	for _, d := range sorted {
		switch d.Kind {
		case types.DealBalance:
			if d.Profit > 0 {
				s.TotalDeposits += d.Profit
				// only the first positive adjustment counts as the initial deposit
				if !firstDepositFound {
					s.PureInitialDeposit = d.Profit
					firstDepositFound = true
				}
			} else {
				s.TotalWithdrawals += math.Abs(d.Profit)
			}
		case types.DealTradeClose:
			s.TradeCount++
			s.TotalTradeProfit += d.Profit
			if d.Profit > 0 {
				winCount++
			}
			if d.IsAlgorithmic() {
				algoCount++
			}
		}
	}

	s.TopUpOnly = math.Max(0, s.TotalDeposits-s.PureInitialDeposit)

	if s.TradeCount > 0 {
		n := float64(s.TradeCount)
		s.WinRate = float64(winCount) / n * 100
		s.LossRate = float64(s.TradeCount-winCount) / n * 100
		s.AlgoRatio = float64(algoCount) / n * 100
	}
	s.TradeActivity = min(s.TradeCount, MaxActivity)
	s.MonthlyHistory = MonthlyHistory(sorted, now, HistoryMonths)

	return &s
}

// SortDeals returns a copy of deals ordered by time, then ticket.
func SortDeals(deals []types.Deal) []types.Deal {
	sorted := make([]types.Deal, len(deals))
	copy(sorted, deals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Time.Equal(sorted[j].Time) {
			return sorted[i].Time.Before(sorted[j].Time)
		}
		return sorted[i].Ticket < sorted[j].Ticket
	})
	return sorted
}
