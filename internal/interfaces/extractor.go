package interfaces

import (
	"context"

	"trade-signal-dashboard/internal/types"
)

// TradeExtractor pairs one instrument's ordered signal rows into closed trades.
type TradeExtractor interface {
	Extract(ctx context.Context, instrument string, rows []types.SignalRow) ([]types.Trade, error)
}

// LotSizer resolves the contract multiplier of an instrument.
type LotSizer interface {
	Lookup(instrument string) int
}
