package interfaces

import (
	"context"

	"account-monitor/internal/types"
)

type Monitor interface {
	Step(ctx context.Context) (*types.CycleResult, error)
}
