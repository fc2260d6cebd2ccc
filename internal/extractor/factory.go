package extractor

import (
	"trade-signal-dashboard/internal/interfaces"
)

func New(lots interfaces.LotSizer) interfaces.TradeExtractor {
	return newExtractor(lots)
}
