package reporter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"account-monitor/internal/logger"
	"account-monitor/internal/types"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(zap.NewNop()) })
	return logs
}

func TestReportPostsJSON(t *testing.T) {
	var (
		gotBody   map[string]any
		gotType   string
		gotReqID  string
		gotAgent  string
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		gotAgent = r.Header.Get("User-Agent")
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep := New(Params{URL: srv.URL + "/api/tick", Timeout: time.Second})
	err := rep.Report(context.Background(), types.ReportPayload{ID: 42, Balance: 1100, Platform: "MT5", MonthlyHistory: []types.MonthlyProfit{}})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, UserAgent, gotAgent)
	assert.Equal(t, float64(42), gotBody["id"])
	assert.Equal(t, "MT5", gotBody["platform"])
	assert.Len(t, gotBody, 18)
}

func TestReportErrorStatusIsDelivered(t *testing.T) {
	logs := observe(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	rep := New(Params{URL: srv.URL})
	require.NoError(t, rep.Report(context.Background(), types.ReportPayload{ID: 7}))

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, int64(7), warns[0].ContextMap()["account_id"])
	assert.Equal(t, int64(http.StatusBadRequest), warns[0].ContextMap()["status"])
}

func TestReportTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rep := New(Params{URL: url, Timeout: time.Second})
	err := rep.Report(context.Background(), types.ReportPayload{ID: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver account 9")
}
