package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySignal opens a position.
type EntrySignal string

const (
	EntryNone EntrySignal = ""
	EntryBuy  EntrySignal = "BUY"
	EntrySell EntrySignal = "SELL"
)

// ExitSignal closes a position.
type ExitSignal string

const (
	ExitNone  ExitSignal = ""
	ExitLong  ExitSignal = "EXIT_LONG"
	ExitShort ExitSignal = "EXIT_SHORT"
)

// Closes reports whether an exit signal closes a position opened by entry.
func (x ExitSignal) Closes(entry EntrySignal) bool {
	switch entry {
	case EntryBuy:
		return x == ExitLong
	case EntrySell:
		return x == ExitShort
	}
	return false
}

// SignalRow is one observation for one instrument. Line is where the row
// sits in the source file, 0 for rows built in memory.
type SignalRow struct {
	Instrument string
	Time       time.Time
	Close      decimal.Decimal
	Entry      EntrySignal
	Exit       ExitSignal
	PnL        decimal.Decimal
	Line       int
}

// Trade is a closed position built from one entry row and one exit row.
type Trade struct {
	Instrument string          `json:"stock_name"`
	EntryTime  time.Time       `json:"entry_datetime"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitTime   time.Time       `json:"exit_datetime"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Direction  EntrySignal     `json:"signal"`
	PnL        int64           `json:"pnl"`
	PnLPerLot  int64           `json:"pnl_per_lot"`
}

// EnrichedTrade carries the calendar attributes used for filtering.
type EnrichedTrade struct {
	Trade
	Month string `json:"month"`
	Year  int    `json:"year"`
}
