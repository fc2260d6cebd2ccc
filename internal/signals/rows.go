package signals

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-signal-dashboard/internal/types"
)

// Column headers of the signal sheet.
const (
	ColStock    = "STOCK_NAME"
	ColDatetime = "DATETIME"
	ColClose    = "CLOSE"
	ColEntry    = "BUY_SELL_Signal"
	ColExit     = "EXIT_Signal"
	ColPnL      = "P&L"
)

// Required lists every column a signal sheet must carry.
var Required = []string{ColStock, ColDatetime, ColClose, ColEntry, ColExit, ColPnL}

// Record is one untyped row as it appears in the source file. Stamp is set
// instead of Datetime when the sheet stores the timestamp as a date serial;
// its wall clock is read in the configured location.
type Record struct {
	Stock    string    `csv:"STOCK_NAME"`
	Datetime string    `csv:"DATETIME"`
	Close    string    `csv:"CLOSE"`
	Entry    string    `csv:"BUY_SELL_Signal"`
	Exit     string    `csv:"EXIT_Signal"`
	PnL      string    `csv:"P&L"`
	Stamp    time.Time `csv:"-"`
	Line     int       `csv:"-"`
}

// parser turns raw records into typed rows.
type parser struct {
	loc     *time.Location
	layouts []string
}

func (p parser) parseAll(raws []Record) ([]types.SignalRow, error) {
	rows := make([]types.SignalRow, 0, len(raws))
	for i, r := range raws {
		row, err := p.parse(i, r)
		if err != nil {
			var mre *types.MalformedRowError
			if errors.As(err, &mre) {
				mre.Line = r.Line
			}
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p parser) parse(i int, r Record) (types.SignalRow, error) {
	row := types.SignalRow{Line: r.Line}

	row.Instrument = strings.TrimSpace(r.Stock)
	if row.Instrument == "" {
		return row, malformed(i, ColStock, "missing")
	}

	ts, err := p.parseTime(r)
	if err != nil {
		return row, malformed(i, ColDatetime, err.Error())
	}
	row.Time = ts

	closeStr := strings.TrimSpace(r.Close)
	if closeStr == "" {
		return row, malformed(i, ColClose, "missing")
	}
	if row.Close, err = decimal.NewFromString(closeStr); err != nil {
		return row, malformed(i, ColClose, "not a number: "+closeStr)
	}

	if row.Entry, err = parseEntry(r.Entry); err != nil {
		return row, malformed(i, ColEntry, err.Error())
	}
	if row.Exit, err = parseExit(r.Exit); err != nil {
		return row, malformed(i, ColExit, err.Error())
	}

	pnlStr := strings.TrimSpace(r.PnL)
	switch {
	case pnlStr != "":
		if row.PnL, err = decimal.NewFromString(pnlStr); err != nil {
			return row, malformed(i, ColPnL, "not a number: "+pnlStr)
		}
	case row.Exit != types.ExitNone:
		// exit rows carry the realized P&L of the trade they close
		return row, malformed(i, ColPnL, "missing on exit row")
	}

	return row, nil
}

func (p parser) parseTime(r Record) (time.Time, error) {
	if !r.Stamp.IsZero() {
		y, mo, d := r.Stamp.Date()
		h, mi, sec := r.Stamp.Clock()
		return time.Date(y, mo, d, h, mi, sec, 0, p.loc), nil
	}

	s := strings.TrimSpace(r.Datetime)
	if s == "" {
		return time.Time{}, errMissing
	}
	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &unparsableError{value: s}
}

func parseEntry(s string) (types.EntrySignal, error) {
	switch v := types.EntrySignal(strings.ToUpper(strings.TrimSpace(s))); v {
	case types.EntryNone, types.EntryBuy, types.EntrySell:
		return v, nil
	}
	return types.EntryNone, &unparsableError{value: s}
}

func parseExit(s string) (types.ExitSignal, error) {
	switch v := types.ExitSignal(strings.ToUpper(strings.TrimSpace(s))); v {
	case types.ExitNone, types.ExitLong, types.ExitShort:
		return v, nil
	}
	return types.ExitNone, &unparsableError{value: s}
}

// Group is the time-ordered slice of rows belonging to one instrument.
type Group struct {
	Instrument string
	Rows       []types.SignalRow
}

// GroupByInstrument splits rows per instrument, ordered by instrument name.
// Each group is stably sorted by timestamp; rows sharing a timestamp keep
// their file order.
func GroupByInstrument(rows []types.SignalRow) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		gi, ok := index[r.Instrument]
		if !ok {
			gi = len(groups)
			index[r.Instrument] = gi
			groups = append(groups, Group{Instrument: r.Instrument})
		}
		groups[gi].Rows = append(groups[gi].Rows, r)
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a].Instrument < groups[b].Instrument })
	for _, g := range groups {
		sort.SliceStable(g.Rows, func(a, b int) bool { return g.Rows[a].Time.Before(g.Rows[b].Time) })
	}
	return groups
}

func malformed(i int, field, reason string) error {
	return &types.MalformedRowError{Index: i, Field: field, Reason: reason}
}
