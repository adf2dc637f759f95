package terminalobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/types"
)

type stubTerminal struct {
	acctErr    error
	connectErr error
}

func (s *stubTerminal) Connect(ctx context.Context) error { return s.connectErr }
func (s *stubTerminal) AccountInfo(ctx context.Context) (*types.AccountSnapshot, error) {
	if s.acctErr != nil {
		return nil, s.acctErr
	}
	return &types.AccountSnapshot{ID: 1}, nil
}
func (s *stubTerminal) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	return []types.Deal{{Ticket: 1}}, nil
}
func (s *stubTerminal) Close(ctx context.Context) {}

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(zap.NewNop()) })
	return logs
}

func TestNoSessionIsNotAnError(t *testing.T) {
	logs := observe(t)
	term := Wrap(&stubTerminal{acctErr: interfaces.ErrNoSession})

	acct, err := term.AccountInfo(context.Background())
	assert.Nil(t, acct)
	assert.ErrorIs(t, err, interfaces.ErrNoSession)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestAccountErrorLoggedAtDebug(t *testing.T) {
	logs := observe(t)
	_, err := Wrap(&stubTerminal{acctErr: errors.New("pipe")}).AccountInfo(context.Background())
	require.Error(t, err)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to read account info").Len())
}

func TestConnectWrapsError(t *testing.T) {
	cause := errors.New("refused")
	err := Wrap(&stubTerminal{connectErr: cause}).Connect(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestPassThrough(t *testing.T) {
	term := Wrap(&stubTerminal{})
	acct, err := term.AccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), acct.ID)

	deals, err := term.HistoryDeals(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Len(t, deals, 1)
}
