package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"trade-signal-dashboard/internal/types"
)

// Columns are the display columns of the trade table, in order.
var Columns = []string{
	"STOCK_NAME", "ENTRY_DATETIME", "ENTRY_PRICE", "EXIT_DATETIME",
	"EXIT_PRICE", "SIGNAL", "P&L", "P&L per Lot",
}

// DatetimeLayout is how entry and exit times are displayed.
const DatetimeLayout = "2006-01-02 15:04:05"

// Record renders one trade as display strings. Prices always carry exactly
// two decimals.
func Record(t types.EnrichedTrade) []string {
	return []string{
		t.Instrument,
		t.EntryTime.Format(DatetimeLayout),
		t.EntryPrice.StringFixed(2),
		t.ExitTime.Format(DatetimeLayout),
		t.ExitPrice.StringFixed(2),
		string(t.Direction),
		strconv.FormatInt(t.PnL, 10),
		strconv.FormatInt(t.PnLPerLot, 10),
	}
}

// WriteCSV writes the table followed by TRADES, TOTAL and AVERAGE footer
// rows whose value sits in the last column.
func WriteCSV(w io.Writer, trades []types.EnrichedTrade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(Record(t)); err != nil {
			return err
		}
	}
	s := Aggregate(trades)
	for _, f := range [][2]string{
		{"TRADES", strconv.Itoa(s.Count)},
		{"TOTAL", strconv.FormatInt(s.TotalPnLPerLot, 10)},
		{"AVERAGE", s.AvgPnLPerTrade.StringFixed(2)},
	} {
		rec := make([]string, len(Columns))
		rec[0], rec[len(rec)-1] = f[0], f[1]
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// InstrumentSummary aggregates the trades of one instrument.
type InstrumentSummary struct {
	Instrument string `json:"stock_name"`
	Summary
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// ByInstrument breaks trades down per instrument, sorted by instrument.
func ByInstrument(trades []types.EnrichedTrade) []InstrumentSummary {
	groups := make(map[string][]types.EnrichedTrade)
	for _, t := range trades {
		groups[t.Instrument] = append(groups[t.Instrument], t)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]InstrumentSummary, 0, len(keys))
	for _, k := range keys {
		row := InstrumentSummary{Instrument: k, Summary: Aggregate(groups[k])}
		for _, t := range groups[k] {
			switch {
			case t.PnLPerLot > 0:
				row.Wins++
			case t.PnLPerLot < 0:
				row.Losses++
			}
		}
		out = append(out, row)
	}
	return out
}
