package enrich

import (
	"trade-signal-dashboard/internal/types"
)

// Enrich tags a trade with the full month name and year of its entry time,
// in the entry time's own location.
func Enrich(t types.Trade) types.EnrichedTrade {
	return types.EnrichedTrade{
		Trade: t,
		Month: t.EntryTime.Month().String(),
		Year:  t.EntryTime.Year(),
	}
}

// EnrichAll maps Enrich over trades, keeping their order.
func EnrichAll(trades []types.Trade) []types.EnrichedTrade {
	out := make([]types.EnrichedTrade, len(trades))
	for i, t := range trades {
		out[i] = Enrich(t)
	}
	return out
}
