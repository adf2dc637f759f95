package types

import "time"

// MT5 deal type and entry codes as reported by the terminal.
const (
	DealTypeBuy     = 0
	DealTypeSell    = 1
	DealTypeBalance = 2

	DealEntryIn    = 0
	DealEntryOut   = 1
	DealEntryInOut = 2
	DealEntryOutBy = 3
)

type DealKind int

const (
	DealOther DealKind = iota
	DealBalance
	DealTradeClose
)

func (k DealKind) String() string {
	switch k {
	case DealBalance:
		return "BALANCE"
	case DealTradeClose:
		return "TRADE_CLOSE"
	default:
		return "OTHER"
	}
}

// ClassifyDeal maps a raw terminal deal type/entry pair to a DealKind.
// Balance operations win over the entry code.
func ClassifyDeal(dealType, entry int) DealKind {
	if dealType == DealTypeBalance {
		return DealBalance
	}
	if entry == DealEntryOut {
		return DealTradeClose
	}
	return DealOther
}

// Deal is one historical ledger entry.
type Deal struct {
	Ticket int64
	Time   time.Time
	Kind   DealKind
	Profit float64
	Magic  int64
	Symbol string
}

// IsAlgorithmic reports whether the deal carries an expert advisor id.
func (d Deal) IsAlgorithmic() bool { return d.Magic != 0 }

type AccountSnapshot struct {
	ID      int64   `json:"id"`
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
	Broker  string  `json:"broker"`
}

// MonthlyProfit is one monthly_history bucket. Profit is nil when the
// month had no closed trades.
type MonthlyProfit struct {
	Month  string   `json:"month"`
	Profit *float64 `json:"profit"`
}

// StatisticsSnapshot is recomputed from the full history every cycle.
type StatisticsSnapshot struct {
	TotalDeposits      float64
	PureInitialDeposit float64
	TopUpOnly          float64
	TotalWithdrawals   float64
	TotalTradeProfit   float64
	WinRate            float64
	LossRate           float64
	AlgoRatio          float64
	TradeCount         int
	TradeActivity      int
	MonthlyHistory     []MonthlyProfit
}

type ReportPayload struct {
	ID                 int64           `json:"id"`
	Balance            float64         `json:"balance"`
	Equity             float64         `json:"equity"`
	Broker             string          `json:"broker"`
	Platform           string          `json:"platform"`
	Floating           float64         `json:"floating"`
	Growth             float64         `json:"growth"`
	InitialDeposit     float64         `json:"initial_deposit"`
	PureInitialDeposit float64         `json:"pure_initial_deposit"`
	TopUpOnly          float64         `json:"top_up_only"`
	Withdrawals        float64         `json:"withdrawals"`
	Deposits           float64         `json:"deposits"`
	ProfitTotal        float64         `json:"profit_total"`
	WinRate            float64         `json:"win_rate"`
	LossRate           float64         `json:"loss_rate"`
	AlgoRatio          float64         `json:"algo_ratio"`
	Activity           int             `json:"activity"`
	MonthlyHistory     []MonthlyProfit `json:"monthly_history"`
}

// CycleResult describes one monitoring cycle for callers and decorators.
type CycleResult struct {
	CycleID    string
	AccountID  int64
	Deals      int
	Investment float64
	Growth     float64
	Delivered  bool
	Error      string
	Payload    ReportPayload
	Time       time.Time
}
