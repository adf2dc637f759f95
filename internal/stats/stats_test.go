package stats

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-monitor/internal/types"
)

var now = time.Date(2024, time.May, 17, 10, 30, 0, 0, time.UTC)

func balance(profit float64, at time.Time) types.Deal {
	return types.Deal{Time: at, Kind: types.DealBalance, Profit: profit}
}

func closed(profit float64, magic int64, at time.Time) types.Deal {
	return types.Deal{Time: at, Kind: types.DealTradeClose, Profit: profit, Magic: magic}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAggregateEmptyHistory(t *testing.T) {
	assert.Nil(t, Aggregate(nil, now))
	assert.Nil(t, Aggregate([]types.Deal{}, now))
}

func TestAggregateFirstPositiveDeposit(t *testing.T) {
	deals := []types.Deal{
		balance(200, day(2023, 3, 1)),
		balance(-50, day(2023, 1, 1)),
		balance(1000, day(2023, 2, 1)),
	}

	s := Aggregate(deals, now)
	require.NotNil(t, s)

	assert.Equal(t, 1000.0, s.PureInitialDeposit)
	assert.Equal(t, 50.0, s.TotalWithdrawals)
	assert.Equal(t, 1200.0, s.TotalDeposits)
	assert.Equal(t, 200.0, s.TopUpOnly)
}

func TestAggregateWithdrawalOnlyKeepsInitialAtZero(t *testing.T) {
	s := Aggregate([]types.Deal{balance(-300, day(2023, 1, 1))}, now)
	require.NotNil(t, s)

	assert.Zero(t, s.PureInitialDeposit)
	assert.Zero(t, s.TotalDeposits)
	assert.Zero(t, s.TopUpOnly)
	assert.Equal(t, 300.0, s.TotalWithdrawals)
}

func TestAggregateZeroBalanceAdjustmentCountsAsWithdrawal(t *testing.T) {
	s := Aggregate([]types.Deal{balance(0, day(2023, 1, 1)), balance(500, day(2023, 1, 2))}, now)
	require.NotNil(t, s)

	assert.Equal(t, 500.0, s.PureInitialDeposit)
	assert.Zero(t, s.TotalWithdrawals)
}

func TestAggregateTradeStats(t *testing.T) {
	deals := []types.Deal{
		balance(1000, day(2023, 1, 1)),
		closed(50, 0, day(2023, 1, 2)),
		closed(-20, 7, day(2023, 1, 3)),
		closed(30, 7, day(2023, 1, 4)),
		closed(0, 0, day(2023, 1, 5)),
		{Time: day(2023, 1, 6), Kind: types.DealOther, Profit: 999},
	}

	s := Aggregate(deals, now)
	require.NotNil(t, s)

	assert.Equal(t, 4, s.TradeCount)
	assert.Equal(t, 4, s.TradeActivity)
	assert.InDelta(t, 60.0, s.TotalTradeProfit, 1e-9)
	assert.InDelta(t, 50.0, s.WinRate, 1e-9)
	assert.InDelta(t, 50.0, s.LossRate, 1e-9)
	assert.InDelta(t, 50.0, s.AlgoRatio, 1e-9)
}

func TestAggregateNoTradesDefaultsRates(t *testing.T) {
	s := Aggregate([]types.Deal{balance(1000, day(2023, 1, 1))}, now)
	require.NotNil(t, s)

	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.LossRate)
	assert.Zero(t, s.AlgoRatio)
	assert.Zero(t, s.TradeActivity)
}

func TestAggregateActivityCap(t *testing.T) {
	for _, tc := range []struct {
		trades int
		want   int
	}{{150, 100}, {100, 100}, {40, 40}} {
		deals := make([]types.Deal, 0, tc.trades)
		for i := 0; i < tc.trades; i++ {
			deals = append(deals, closed(1, 0, day(2023, 1, 1).Add(time.Duration(i)*time.Minute)))
		}
		s := Aggregate(deals, now)
		require.NotNil(t, s)
		assert.Equal(t, tc.want, s.TradeActivity, "trades=%d", tc.trades)
		assert.Equal(t, tc.trades, s.TradeCount)
	}
}

func TestMonthlyHistory(t *testing.T) {
	deals := []types.Deal{
		closed(100, 0, day(2024, 4, 3)),
		closed(-40, 0, day(2024, 4, 20)),
		closed(10, 0, day(2024, 2, 28)),
		closed(-10, 0, day(2024, 2, 29)),
		balance(5000, day(2024, 3, 10)),
		closed(77, 0, day(2024, 5, 2)),
		closed(88, 0, day(2023, 4, 2)),
	}

	s := Aggregate(deals, now)
	require.NotNil(t, s)
	require.Len(t, s.MonthlyHistory, HistoryMonths)

	apr, mar, feb := s.MonthlyHistory[0], s.MonthlyHistory[1], s.MonthlyHistory[2]

	assert.Equal(t, "Apr", apr.Month)
	require.NotNil(t, apr.Profit)
	assert.InDelta(t, 60.0, *apr.Profit, 1e-9)

	assert.Equal(t, "Mar", mar.Month)
	assert.Nil(t, mar.Profit, "balance deals must not create a monthly bucket")

	assert.Equal(t, "Feb", feb.Month)
	require.NotNil(t, feb.Profit, "zero net profit is not an absent month")
	assert.Zero(t, *feb.Profit)
}

func TestMonthlyHistoryCrossesYearBoundary(t *testing.T) {
	jan := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	got := MonthlyHistory([]types.Deal{closed(5, 0, day(2023, 11, 30))}, jan, HistoryMonths)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Dec", "Nov", "Oct"}, []string{got[0].Month, got[1].Month, got[2].Month})
	assert.Nil(t, got[0].Profit)
	require.NotNil(t, got[1].Profit)
	assert.Equal(t, 5.0, *got[1].Profit)
	assert.Nil(t, got[2].Profit)
}

func TestMonthlyHistoryUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	localNow := time.Date(2024, time.May, 10, 0, 0, 0, 0, loc)
	// 22:30 UTC on 30 Apr is already 1 May in UTC+3
	d := closed(10, 0, time.Date(2024, time.April, 30, 22, 30, 0, 0, time.UTC))

	got := MonthlyHistory([]types.Deal{d}, localNow, 1)

	require.Len(t, got, 1)
	assert.Equal(t, "Apr", got[0].Month)
	assert.Nil(t, got[0].Profit)
}

func TestSortDealsDoesNotMutateInput(t *testing.T) {
	in := []types.Deal{balance(2, day(2023, 2, 1)), balance(1, day(2023, 1, 1))}
	out := SortDeals(in)

	assert.Equal(t, 2.0, in[0].Profit)
	assert.Equal(t, 1.0, out[0].Profit)
}

// genDeals produces histories with unique tickets and times spread over
// the five years before now.
func genDeals() gopter.Gen {
	return gen.SliceOf(gen.Struct(rawDealType, map[string]gopter.Gen{
		"Kind":   gen.IntRange(0, 2),
		"Profit": gen.Float64Range(-5000, 5000),
		"Magic":  gen.Int64Range(0, 3),
		"Offset": gen.Int64Range(0, 5*365*24*3600),
	})).Map(func(raw []rawDeal) []types.Deal {
		deals := make([]types.Deal, len(raw))
		for i, r := range raw {
			deals[i] = types.Deal{
				Ticket: int64(i + 1),
				Time:   now.Add(-time.Duration(r.Offset) * time.Second),
				Kind:   types.DealKind(r.Kind),
				Profit: r.Profit,
				Magic:  r.Magic,
			}
		}
		return deals
	})
}

type rawDeal struct {
	Kind   int
	Profit float64
	Magic  int64
	Offset int64
}

var rawDealType = reflect.TypeOf(rawDeal{})

func TestAggregateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("win and loss rates are complementary", prop.ForAll(
		func(deals []types.Deal) bool {
			s := Aggregate(deals, now)
			if s == nil {
				return len(deals) == 0
			}
			if s.TradeCount == 0 {
				return s.WinRate == 0 && s.LossRate == 0
			}
			inRange := s.WinRate >= 0 && s.WinRate <= 100 && s.LossRate >= 0 && s.LossRate <= 100
			sum := s.WinRate + s.LossRate
			return inRange && sum > 100-1e-9 && sum < 100+1e-9
		},
		genDeals(),
	))

	properties.Property("top up is never negative", prop.ForAll(
		func(deals []types.Deal) bool {
			s := Aggregate(deals, now)
			return s == nil || s.TopUpOnly >= 0
		},
		genDeals(),
	))

	properties.Property("monthly history always has three buckets", prop.ForAll(
		func(deals []types.Deal) bool {
			s := Aggregate(deals, now)
			return s == nil || len(s.MonthlyHistory) == HistoryMonths
		},
		genDeals(),
	))

	properties.Property("input order does not change the snapshot", prop.ForAll(
		func(deals []types.Deal, seed int64) bool {
			shuffled := make([]types.Deal, len(deals))
			copy(shuffled, deals)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			return assert.ObjectsAreEqual(Aggregate(deals, now), Aggregate(shuffled, now))
		},
		genDeals(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
