package extractor

import (
	"context"

	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/types"
)

const priceDecimals = 2

// Extractor turns one instrument's signal rows into closed trades.
type Extractor struct {
	lots interfaces.LotSizer
}

var _ interfaces.TradeExtractor = (*Extractor)(nil)

func newExtractor(lots interfaces.LotSizer) *Extractor {
	return &Extractor{lots: lots}
}

// Extract scans rows once, front to back. An entry row opens a position and
// the first later row carrying the matching exit closes it. Scanning resumes
// after the closing row, so rows inside a trade are never looked at again
// and the closing row cannot open the next trade. An entry without a closing
// row produces nothing.
//
// rows must all belong to instrument and be ordered by time.
func (e *Extractor) Extract(ctx context.Context, instrument string, rows []types.SignalRow) ([]types.Trade, error) {
	if err := validate(instrument, rows); err != nil {
		return nil, err
	}

	lot := int64(e.lotSize(instrument))
	var trades []types.Trade
	unmatched := 0

	for i := 0; i < len(rows); i++ {
		entry := rows[i]
		if entry.Entry != types.EntryBuy && entry.Entry != types.EntrySell {
			continue
		}

		closed := false
		for j := i + 1; j < len(rows); j++ {
			exit := rows[j]
			if !exit.Exit.Closes(entry.Entry) {
				continue
			}

			pnl := exit.PnL.Truncate(0).IntPart()
			t := types.Trade{
				Instrument: instrument,
				EntryTime:  entry.Time,
				EntryPrice: entry.Close.Round(priceDecimals),
				ExitTime:   exit.Time,
				ExitPrice:  exit.Close.Round(priceDecimals),
				Direction:  entry.Entry,
				PnL:        pnl,
				PnLPerLot:  pnl * lot,
			}
			trades = append(trades, t)
			logger.Trade(ctx, instrument, string(t.Direction), t.EntryTime, t.ExitTime, t.PnL, t.PnLPerLot)

			// the loop increment moves past the closing row
			i = j
			closed = true
			break
		}

		if !closed {
			unmatched++
			logger.Unmatched(ctx, instrument, string(entry.Entry), entry.Time, i)
		}
	}

	if unmatched > 0 {
		logger.Warn(ctx, "Entries without a closing exit were dropped",
			"instrument", instrument,
			"unmatched", unmatched,
		)
	}
	return trades, nil
}

func (e *Extractor) lotSize(instrument string) int {
	if e.lots == nil {
		return 1
	}
	return e.lots.Lookup(instrument)
}

func validate(instrument string, rows []types.SignalRow) error {
	for i, r := range rows {
		if r.Instrument != instrument {
			return &types.MalformedRowError{Index: i, Line: r.Line, Field: "STOCK_NAME", Reason: "row belongs to " + r.Instrument + ", not " + instrument}
		}
		if r.Time.IsZero() {
			return &types.MalformedRowError{Index: i, Line: r.Line, Field: "DATETIME", Reason: "missing"}
		}
		if i > 0 && r.Time.Before(rows[i-1].Time) {
			return &types.MalformedRowError{Index: i, Line: r.Line, Field: "DATETIME", Reason: "earlier than the previous row"}
		}
	}
	return nil
}
