package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-monitor/internal/types"
)

const dealsCSV = `ticket,time,type,entry,profit,magic,symbol
1,1420243200,2,0,1000,0,
2,1420329600,0,0,0,0,EURUSD
3,1420416000,1,1,25.5,42,EURUSD
4,1388534400,2,0,99,0,
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestAccountInfo(t *testing.T) {
	dir := t.TempDir()
	term := New(Params{
		AccountPath: writeFile(t, dir, "account.csv", "login,balance,equity,company\n5012345,1500.25,1490,Demo Broker Ltd\n"),
		DealsPath:   writeFile(t, dir, "deals.csv", dealsCSV),
	})

	require.NoError(t, term.Connect(context.Background()))

	acct, err := term.AccountInfo(context.Background())
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, types.AccountSnapshot{ID: 5012345, Balance: 1500.25, Equity: 1490, Broker: "Demo Broker Ltd"}, *acct)
}

func TestAccountInfoWithoutSession(t *testing.T) {
	dir := t.TempDir()

	missing := New(Params{AccountPath: filepath.Join(dir, "account.csv")})
	acct, err := missing.AccountInfo(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, acct)

	empty := New(Params{AccountPath: writeFile(t, dir, "empty.csv", "")})
	acct, err = empty.AccountInfo(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, acct)

	headerOnly := New(Params{AccountPath: writeFile(t, dir, "header.csv", "login,balance,equity,company\n")})
	acct, err = headerOnly.AccountInfo(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, acct)
}

func TestHistoryDealsFiltersRange(t *testing.T) {
	term := New(Params{DealsPath: writeFile(t, t.TempDir(), "deals.csv", dealsCSV)})

	from := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	deals, err := term.HistoryDeals(context.Background(), from, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, deals, 3, "the 2014 deposit is before the history start")

	assert.Equal(t, types.DealBalance, deals[0].Kind)
	assert.Equal(t, types.DealOther, deals[1].Kind)
	assert.Equal(t, types.DealTradeClose, deals[2].Kind)
	assert.Equal(t, 25.5, deals[2].Profit)
	assert.True(t, deals[2].IsAlgorithmic())
}

func TestConnectRequiresDealsExport(t *testing.T) {
	term := New(Params{DealsPath: filepath.Join(t.TempDir(), "deals.csv")})
	assert.Error(t, term.Connect(context.Background()))
}
