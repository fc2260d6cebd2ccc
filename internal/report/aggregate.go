package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade-signal-dashboard/internal/types"
)

// Summary holds the aggregate statistics of a set of trades.
type Summary struct {
	Count          int             `json:"total_trades"`
	TotalPnLPerLot int64           `json:"total_pnl_per_lot"`
	AvgPnLPerTrade decimal.Decimal `json:"avg_pnl_per_trade"`
}

// Aggregate computes count, total P&L per lot and the average per trade
// rounded to 2 decimals. An empty input yields zeros.
func Aggregate(trades []types.EnrichedTrade) Summary {
	s := Summary{Count: len(trades), AvgPnLPerTrade: decimal.Zero}
	for _, t := range trades {
		s.TotalPnLPerLot += t.PnLPerLot
	}
	if s.Count > 0 {
		s.AvgPnLPerTrade = decimal.NewFromInt(s.TotalPnLPerLot).
			DivRound(decimal.NewFromInt(int64(s.Count)), 2)
	}
	return s
}

// Domains lists the values offered by the three selectors.
type Domains struct {
	Instruments []string `json:"instruments"`
	Years       []int    `json:"years"`
	Months      []string `json:"months"`
}

// CalendarMonths returns January through December.
func CalendarMonths() []string {
	months := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m.String())
	}
	return months
}

// DomainsOf returns the distinct instruments and years present in trades,
// both sorted ascending, plus the fixed list of calendar months.
func DomainsOf(trades []types.EnrichedTrade) Domains {
	seenInst := make(map[string]bool)
	seenYear := make(map[int]bool)
	d := Domains{Instruments: []string{}, Years: []int{}, Months: CalendarMonths()}
	for _, t := range trades {
		if !seenInst[t.Instrument] {
			seenInst[t.Instrument] = true
			d.Instruments = append(d.Instruments, t.Instrument)
		}
		if !seenYear[t.Year] {
			seenYear[t.Year] = true
			d.Years = append(d.Years, t.Year)
		}
	}
	sort.Strings(d.Instruments)
	sort.Ints(d.Years)
	return d
}
