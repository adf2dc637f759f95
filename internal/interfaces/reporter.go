package interfaces

import (
	"context"

	"account-monitor/internal/types"
)

type Reporter interface {
	Report(ctx context.Context, payload types.ReportPayload) error
}
