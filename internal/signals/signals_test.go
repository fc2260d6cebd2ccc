package signals

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"trade-signal-dashboard/internal/store"
	"trade-signal-dashboard/internal/types"
)

var ist = time.FixedZone("IST", 19800)

const sheet = `STOCK_NAME,DATETIME,CLOSE,BUY_SELL_Signal,EXIT_Signal,P&L
INFY,2024-03-04 09:20:00,1502.10,,EXIT_LONG,8.4
INFY,2024-03-04 09:15:00,1500.456,BUY,,
TCS,2024-03-04 09:15:00,3500,sell,,0
TCS,2024-03-04 09:30:00,3490.5,,EXIT_SHORT,-9.5
`

func parseCSV(t *testing.T, data string) ([]types.SignalRow, error) {
	t.Helper()
	raws, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	return Parse(raws, ist, store.DefaultDatetimeLayouts)
}

func TestParseCSV(t *testing.T) {
	rows, err := parseCSV(t, sheet)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	r := rows[1]
	if r.Instrument != "INFY" || r.Entry != types.EntryBuy || r.Exit != types.ExitNone {
		t.Errorf("Unexpected row: %+v", r)
	}
	if !r.Time.Equal(time.Date(2024, 3, 4, 9, 15, 0, 0, ist)) {
		t.Errorf("Expected 09:15 IST, got %v", r.Time)
	}
	if !r.Close.Equal(decimal.RequireFromString("1500.456")) {
		t.Errorf("Expected close 1500.456, got %s", r.Close)
	}
	if !r.PnL.IsZero() {
		t.Errorf("Expected blank P&L to be zero, got %s", r.PnL)
	}

	if rows[2].Entry != types.EntrySell {
		t.Errorf("Expected lower-case sell to parse as SELL, got %q", rows[2].Entry)
	}
	if !rows[3].PnL.Equal(decimal.RequireFromString("-9.5")) {
		t.Errorf("Expected P&L -9.5, got %s", rows[3].PnL)
	}
}

func TestReadCSVWithUTF16BOM(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(sheet)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rows, err := parseCSV(t, encoded)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(rows) != 4 || rows[0].Instrument != "INFY" {
		t.Errorf("Expected 4 rows starting with INFY, got %d", len(rows))
	}
}

func TestMalformedRows(t *testing.T) {
	header := "STOCK_NAME,DATETIME,CLOSE,BUY_SELL_Signal,EXIT_Signal,P&L\n"
	good := "INFY,2024-03-04 09:15:00,1500,BUY,,0\n"

	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"missing stock", ",2024-03-04 09:16:00,1500,,,0\n", ColStock},
		{"bad datetime", "INFY,yesterday,1500,,,0\n", ColDatetime},
		{"missing close", "INFY,2024-03-04 09:16:00,,,,0\n", ColClose},
		{"bad close", "INFY,2024-03-04 09:16:00,abc,,,0\n", ColClose},
		{"unknown entry", "INFY,2024-03-04 09:16:00,1500,HOLD,,0\n", ColEntry},
		{"unknown exit", "INFY,2024-03-04 09:16:00,1500,,EXIT,0\n", ColExit},
		{"bad pnl", "INFY,2024-03-04 09:16:00,1500,,,x\n", ColPnL},
		{"exit without pnl", "INFY,2024-03-04 09:16:00,1500,,EXIT_LONG,\n", ColPnL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSV(t, header+good+tt.line)
			var mre *types.MalformedRowError
			if !errors.As(err, &mre) {
				t.Fatalf("Expected MalformedRowError, got %v", err)
			}
			if mre.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, mre.Field)
			}
			if mre.Index != 1 {
				t.Errorf("Expected row index 1, got %d", mre.Index)
			}
			if mre.Line != 3 {
				t.Errorf("Expected line 3, got %d", mre.Line)
			}
		})
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	data := "STOCK_NAME,DATETIME,CLOSE,BUY_SELL_Signal,P&L\n" +
		"INFY,2024-03-04 09:15:00,1500,BUY,0\n" +
		"INFY,2024-03-04 09:20:00,1502,,8.4\n"

	_, err := ReadCSV(strings.NewReader(data))
	var mre *types.MalformedRowError
	if !errors.As(err, &mre) {
		t.Fatalf("Expected MalformedRowError, got %v", err)
	}
	if mre.Field != ColExit || mre.Reason != "missing column" {
		t.Errorf("Expected missing %s column, got %s: %s", ColExit, mre.Field, mre.Reason)
	}
}

func TestReadCSVLineNumbers(t *testing.T) {
	data := "STOCK_NAME,DATETIME,CLOSE,BUY_SELL_Signal,EXIT_Signal,P&L\n" +
		"INFY,2024-03-04 09:15:00,1500,BUY,,0\n" +
		"\n" +
		"INFY,2024-03-04 09:20:00,1502,,EXIT_LONG,8.4\n"

	raws, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if len(raws) != 2 || raws[0].Line != 2 || raws[1].Line != 4 {
		t.Errorf("Expected records on lines 2 and 4, got %+v", raws)
	}
}

func TestGroupByInstrument(t *testing.T) {
	rows, err := parseCSV(t, sheet)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	groups := GroupByInstrument(rows)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Instrument != "INFY" || groups[1].Instrument != "TCS" {
		t.Errorf("Expected INFY, TCS order, got %s, %s", groups[0].Instrument, groups[1].Instrument)
	}
	infy := groups[0].Rows
	if infy[0].Entry != types.EntryBuy || infy[1].Exit != types.ExitLong {
		t.Errorf("Expected INFY rows sorted by time, got %+v", infy)
	}
}

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := r
		if err := wb.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
}

func TestFileSourceXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"STOCK_NAME", "DATETIME", "CLOSE", "BUY_SELL_Signal", "EXIT_Signal", "P&L"},
		{"SBIN", "2024-05-02 10:00:00", 812.35, "BUY", "", 0},
		{},
		{"SBIN", "2024-05-02 11:00:00", 820.1, "", "EXIT_LONG", 7.75},
	})

	src := NewFileSource(Params{Path: path, Location: ist, Layouts: store.DefaultDatetimeLayouts})
	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows (blank row skipped), got %d", len(rows))
	}
	if !rows[0].Close.Equal(decimal.RequireFromString("812.35")) {
		t.Errorf("Expected close 812.35, got %s", rows[0].Close)
	}
	if rows[1].Exit != types.ExitLong || !rows[1].PnL.Equal(decimal.RequireFromString("7.75")) {
		t.Errorf("Unexpected exit row: %+v", rows[1])
	}
}

func TestFileSourceXLSXMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"STOCK_NAME", "DATETIME", "CLOSE"},
		{"SBIN", "2024-05-02 10:00:00", 812.35},
	})

	_, err := NewFileSource(Params{Path: path}).Load(context.Background())
	var mre *types.MalformedRowError
	if !errors.As(err, &mre) || mre.Reason != "missing column" {
		t.Errorf("Expected missing column error, got %v", err)
	}
}

func TestFileSourceXLSXStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"STOCK_NAME", "DATETIME", "CLOSE", "BUY_SELL_Signal", "EXIT_Signal", "P&L"},
		{"INFY", time.Date(2024, time.March, 4, 9, 15, 0, 0, time.UTC), 1500.456, "BUY", "", 0},
		{"INFY", time.Date(2024, time.March, 4, 9, 45, 0, 0, time.UTC), 1510, "", "EXIT_LONG", 9.6},
	})

	// whole-number display format on the numeric cells
	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	style, err := wb.NewStyle(&excelize.Style{NumFmt: 1})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	for _, c := range []string{"C2", "F3"} {
		if err := wb.SetCellStyle("Sheet1", c, c, style); err != nil {
			t.Fatalf("SetCellStyle: %v", err)
		}
	}
	if err := wb.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	wb.Close()

	rows, err := NewFileSource(Params{Path: path, Location: ist, Layouts: store.DefaultDatetimeLayouts}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Time.Equal(time.Date(2024, time.March, 4, 9, 15, 0, 0, ist)) {
		t.Errorf("Expected 09:15 IST from the date cell, got %v", rows[0].Time)
	}
	if !rows[1].Time.Equal(time.Date(2024, time.March, 4, 9, 45, 0, 0, ist)) {
		t.Errorf("Expected 09:45 IST from the date cell, got %v", rows[1].Time)
	}
	if !rows[0].Close.Equal(decimal.RequireFromString("1500.456")) {
		t.Errorf("Expected stored close 1500.456, got %s", rows[0].Close)
	}
	if !rows[1].PnL.Equal(decimal.RequireFromString("9.6")) {
		t.Errorf("Expected stored P&L 9.6, got %s", rows[1].PnL)
	}
}

func TestFileSourceXLSXReportsSheetRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"STOCK_NAME", "DATETIME", "CLOSE", "BUY_SELL_Signal", "EXIT_Signal", "P&L"},
		{"SBIN", "2024-05-02 10:00:00", 812.35, "BUY", "", 0},
		{},
		{"SBIN", "2024-05-02 11:00:00", "n/a", "", "EXIT_LONG", 7.75},
	})

	_, err := NewFileSource(Params{Path: path, Location: ist, Layouts: store.DefaultDatetimeLayouts}).Load(context.Background())
	var mre *types.MalformedRowError
	if !errors.As(err, &mre) {
		t.Fatalf("Expected MalformedRowError, got %v", err)
	}
	if mre.Field != ColClose || mre.Index != 1 || mre.Line != 4 {
		t.Errorf("Expected CLOSE at index 1 on sheet row 4, got %s at %d line %d", mre.Field, mre.Index, mre.Line)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("Expected the sheet row in the message, got %q", err.Error())
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")
	if _, err := NewFileSource(Params{Path: path}).Load(context.Background()); err == nil {
		t.Error("Expected error for a missing file")
	}
}
