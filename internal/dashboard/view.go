package dashboard

import (
	"strconv"

	"trade-signal-dashboard/internal/pipeline"
	"trade-signal-dashboard/internal/report"
	"trade-signal-dashboard/internal/types"
)

// Sign classes used to colour P&L cells.
const (
	SignPositive = "positive"
	SignNegative = "negative"
	SignZero     = "zero"
)

// Row is one rendered line of the trade table.
type Row struct {
	StockName      string `json:"STOCK_NAME"`
	EntryDatetime  string `json:"ENTRY_DATETIME"`
	EntryPrice     string `json:"ENTRY_PRICE"`
	ExitDatetime   string `json:"EXIT_DATETIME"`
	ExitPrice      string `json:"EXIT_PRICE"`
	Signal         string `json:"SIGNAL"`
	PnL            int64  `json:"P&L"`
	PnLPerLot      int64  `json:"P&L per Lot"`
	PnLClass       string `json:"pnl_class"`
	PnLPerLotClass string `json:"pnl_per_lot_class"`
}

// Selection echoes the active selector values, sentinels included.
type Selection struct {
	Stock string `json:"stock"`
	Year  string `json:"year"`
	Month string `json:"month"`
}

// Options are the selector choices, each led by its "All ..." sentinel.
type Options struct {
	Stocks []string `json:"stocks"`
	Years  []string `json:"years"`
	Months []string `json:"months"`
}

// View is everything the dashboard renders for one selection.
type View struct {
	Selection Selection      `json:"selection"`
	Columns   []string       `json:"columns"`
	Rows      []Row          `json:"rows"`
	Summary   report.Summary `json:"summary"`
}

// SignClass classifies a P&L value.
func SignClass(v int64) string {
	switch {
	case v > 0:
		return SignPositive
	case v < 0:
		return SignNegative
	}
	return SignZero
}

// NewRow renders a trade for display.
func NewRow(t types.EnrichedTrade) Row {
	rec := report.Record(t)
	return Row{
		StockName:      rec[0],
		EntryDatetime:  rec[1],
		EntryPrice:     rec[2],
		ExitDatetime:   rec[3],
		ExitPrice:      rec[4],
		Signal:         rec[5],
		PnL:            t.PnL,
		PnLPerLot:      t.PnLPerLot,
		PnLClass:       SignClass(t.PnL),
		PnLPerLotClass: SignClass(t.PnLPerLot),
	}
}

// Build renders the filtered table and summary for f.
func Build(book *pipeline.Book, f report.Filter) View {
	trades, summary := book.Select(f)

	rows := make([]Row, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, NewRow(t))
	}

	stock, year, month := f.Selection()
	return View{
		Selection: Selection{Stock: stock, Year: year, Month: month},
		Columns:   report.Columns,
		Rows:      rows,
		Summary:   summary,
	}
}

// OptionsOf lists selector choices for the book.
func OptionsOf(book *pipeline.Book) Options {
	d := book.Domains
	o := Options{
		Stocks: append([]string{report.AllStocks}, d.Instruments...),
		Years:  make([]string, 0, len(d.Years)+1),
		Months: append([]string{report.AllMonths}, d.Months...),
	}
	o.Years = append(o.Years, report.AllYears)
	for _, y := range d.Years {
		o.Years = append(o.Years, strconv.Itoa(y))
	}
	return o
}
