package eod

// summaryRow is one account's line in the daily CSV.
type summaryRow struct {
	ID           int64   `csv:"id"`
	Broker       string  `csv:"broker"`
	Platform     string  `csv:"platform"`
	Cycles       int     `csv:"cycles"`
	OpenBalance  float64 `csv:"open_balance"`
	CloseBalance float64 `csv:"close_balance"`
	CloseEquity  float64 `csv:"close_equity"`
	CloseGrowth  float64 `csv:"close_growth"`
	ProfitTotal  float64 `csv:"profit_total"`
}
