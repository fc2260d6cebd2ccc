package extractorobs

import (
	"context"
	"time"

	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/trace"
	"trade-signal-dashboard/internal/types"
)

type observableExtractor struct {
	extractor interfaces.TradeExtractor
}

var _ interfaces.TradeExtractor = (*observableExtractor)(nil)

func Wrap(ex interfaces.TradeExtractor) interfaces.TradeExtractor {
	return &observableExtractor{
		extractor: ex,
	}
}

func (oe *observableExtractor) Extract(ctx context.Context, instrument string, rows []types.SignalRow) ([]types.Trade, error) {
	ctx, span := trace.StartSpan(ctx, "extractor.Extract")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Pairing signals",
		"instrument", instrument,
		"rows", len(rows),
	)

	trades, err := oe.extractor.Extract(ctx, instrument, rows)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Signal pairing failed", err,
			"instrument", instrument,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Signals paired",
		"instrument", instrument,
		"rows", len(rows),
		"trades", len(trades),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return trades, nil
}
