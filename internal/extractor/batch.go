package extractor

import (
	"context"
	"fmt"
	"sync"

	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/signals"
	"trade-signal-dashboard/internal/types"
)

// ExtractAll runs ex over every instrument group and concatenates the trades
// in group order. With workers > 1 groups are scanned concurrently; the
// output is identical to a sequential run. The first failing group aborts
// the whole batch.
func ExtractAll(ctx context.Context, ex interfaces.TradeExtractor, groups []signals.Group, workers int) ([]types.Trade, error) {
	results := make([][]types.Trade, len(groups))
	errs := make([]error, len(groups))

	if workers <= 1 {
		for gi, g := range groups {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			trades, err := ex.Extract(ctx, g.Instrument, g.Rows)
			if err != nil {
				return nil, fmt.Errorf("extract %s: %w", g.Instrument, err)
			}
			results[gi] = trades
		}
		return flatten(results), nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for gi := range jobs {
				results[gi], errs[gi] = ex.Extract(ctx, groups[gi].Instrument, groups[gi].Rows)
			}
		}()
	}
	for gi := range groups {
		if ctx.Err() != nil {
			break
		}
		jobs <- gi
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for gi, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", groups[gi].Instrument, err)
		}
	}
	return flatten(results), nil
}

func flatten(results [][]types.Trade) []types.Trade {
	n := 0
	for _, r := range results {
		n += len(r)
	}
	out := make([]types.Trade, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
