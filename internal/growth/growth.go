// Package growth converts a statistics snapshot into the net investment
// and growth figures and assembles the outbound report payload.
package growth

import "account-monitor/internal/types"

type Result struct {
	Investment    float64
	GrowthPercent float64
}

// Calculate nets deposits against withdrawals. A non-positive net falls
// back to the current balance, and growth is zero unless the resulting
// investment is positive.
func Calculate(s types.StatisticsSnapshot, balance float64) Result {
	investment := s.TotalDeposits - s.TotalWithdrawals
	if investment <= 0 {
		investment = balance
	}

	var pct float64
	if investment > 0 {
		pct = s.TotalTradeProfit / investment * 100
	}
	return Result{Investment: investment, GrowthPercent: pct}
}

// OrZero is the reporting-boundary default for an absent snapshot.
func OrZero(s *types.StatisticsSnapshot) types.StatisticsSnapshot {
	if s == nil {
		return types.StatisticsSnapshot{MonthlyHistory: []types.MonthlyProfit{}}
	}
	out := *s
	if out.MonthlyHistory == nil {
		out.MonthlyHistory = []types.MonthlyProfit{}
	}
	return out
}

// BuildPayload merges the account snapshot with the derived figures.
func BuildPayload(acct types.AccountSnapshot, snapshot *types.StatisticsSnapshot, platform string) (types.ReportPayload, Result) {
	s := OrZero(snapshot)
	r := Calculate(s, acct.Balance)

	return types.ReportPayload{
		ID:                 acct.ID,
		Balance:            acct.Balance,
		Equity:             acct.Equity,
		Broker:             acct.Broker,
		Platform:           platform,
		Floating:           acct.Equity - acct.Balance,
		Growth:             r.GrowthPercent,
		InitialDeposit:     r.Investment,
		PureInitialDeposit: s.PureInitialDeposit,
		TopUpOnly:          s.TopUpOnly,
		Withdrawals:        s.TotalWithdrawals,
		Deposits:           s.TotalDeposits,
		ProfitTotal:        s.TotalTradeProfit,
		WinRate:            s.WinRate,
		LossRate:           s.LossRate,
		AlgoRatio:          s.AlgoRatio,
		Activity:           s.TradeActivity,
		MonthlyHistory:     s.MonthlyHistory,
	}, r
}
