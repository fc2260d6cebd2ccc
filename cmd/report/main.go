package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"trade-signal-dashboard/internal/app"
	"trade-signal-dashboard/internal/report"
	"trade-signal-dashboard/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	stock := flag.String("stock", report.AllStocks, "instrument to show")
	year := flag.String("year", report.AllYears, "entry year to show")
	month := flag.String("month", report.AllMonths, "entry month to show (name or 1-12)")
	out := flag.String("csv", "-", "write the filtered table to this path ('-' for stdout)")
	flag.Parse()

	must(app.InitializeSystem(os.Stderr))
	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := app.LoadConfig(ctx)
	must(err)

	book, err := app.BuildBook(ctx, cfg)
	must(err)

	trades, summary := book.Select(report.ParseFilter(*stock, *year, *month))

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		must(err)
		defer f.Close()
		w = f
	}
	must(report.WriteCSV(w, trades))

	fmt.Fprintf(os.Stderr, "Total P&L per Lot: %d\n", summary.TotalPnLPerLot)
	fmt.Fprintf(os.Stderr, "Total Trades: %d\n", summary.Count)
	fmt.Fprintf(os.Stderr, "Average P&L per Trade: %s\n", summary.AvgPnLPerTrade.StringFixed(2))
}
