package interfaces

import (
	"context"

	"trade-signal-dashboard/internal/types"
)

// SignalSource yields validated signal rows from an external tabular source.
type SignalSource interface {
	Load(ctx context.Context) ([]types.SignalRow, error)
}
