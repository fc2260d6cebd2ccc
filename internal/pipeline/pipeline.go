package pipeline

import (
	"context"
	"time"

	"trade-signal-dashboard/internal/enrich"
	"trade-signal-dashboard/internal/extractor"
	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/report"
	"trade-signal-dashboard/internal/signals"
	"trade-signal-dashboard/internal/types"
)

// Book is the immutable set of enriched trades derived from one load of the
// signal source. It is safe for concurrent readers.
type Book struct {
	Trades  []types.EnrichedTrade
	Domains report.Domains
	Rows    int
	BuiltAt time.Time
}

// Select applies f and aggregates the result.
func (b *Book) Select(f report.Filter) ([]types.EnrichedTrade, report.Summary) {
	trades := f.Apply(b.Trades)
	return trades, report.Aggregate(trades)
}

// Build loads every row from src, pairs each instrument's signals into
// trades and enriches them. Any malformed row aborts the build.
func Build(ctx context.Context, src interfaces.SignalSource, ex interfaces.TradeExtractor, workers int) (*Book, error) {
	timer := logger.StartOperation(ctx, "pipeline.Build", "workers", workers)
	ctx = timer.GetContext()

	rows, err := src.Load(ctx)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	groups := signals.GroupByInstrument(rows)
	trades, err := extractor.ExtractAll(ctx, ex, groups, workers)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	enriched := enrich.EnrichAll(trades)
	book := &Book{
		Trades:  enriched,
		Domains: report.DomainsOf(enriched),
		Rows:    len(rows),
		BuiltAt: time.Now(),
	}

	logger.Info(ctx, "Trade book built",
		"rows", len(rows),
		"instruments", len(groups),
		"trades", len(enriched),
	)
	timer.End("rows", len(rows), "trades", len(enriched))
	return book, nil
}
