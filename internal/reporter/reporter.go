// Package reporter delivers account payloads to the collection server.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"account-monitor/internal/api"
	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/types"
)

const UserAgent = "account-monitor-agent"

type Params struct {
	URL     string
	Timeout time.Duration
}

type HTTPReporter struct {
	url    string
	client *api.Client
}

var _ interfaces.Reporter = (*HTTPReporter)(nil)

func New(p Params) *HTTPReporter {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPReporter{
		url: p.URL,
		client: api.NewClient(
			api.WithTimeout(timeout),
			api.WithHeader("User-Agent", UserAgent),
			api.WithLogging(logger.IsDebugEnabled()),
		),
	}
}

// Report POSTs the payload as JSON. Any HTTP answer counts as delivered;
// an error status is only logged. Transport failures are returned.
func (r *HTTPReporter) Report(ctx context.Context, payload types.ReportPayload) error {
	headers := map[string]string{"X-Request-ID": uuid.NewString()}

	resp, err := r.client.POST(ctx, r.url, payload, headers)

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		logger.Warn(ctx, "Server rejected account update",
			"account_id", payload.ID,
			"status", statusErr.StatusCode,
			"body", statusErr.Body,
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("deliver account %d: %w", payload.ID, err)
	}

	logger.Debug(ctx, "Account update accepted", "account_id", payload.ID, "status", resp.StatusCode)
	return nil
}
