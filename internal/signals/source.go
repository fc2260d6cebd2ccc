package signals

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/types"
)

var errMissing = errors.New("missing")

type unparsableError struct {
	value string
}

func (e *unparsableError) Error() string {
	return fmt.Sprintf("unparsable value %q", e.value)
}

// Params configures a file source.
type Params struct {
	Path     string
	Sheet    string
	Location *time.Location
	Layouts  []string
}

// FileSource reads signal rows from a .csv or .xlsx file.
type FileSource struct {
	p Params
}

var _ interfaces.SignalSource = (*FileSource)(nil)

func NewFileSource(p Params) *FileSource {
	if p.Location == nil {
		p.Location = time.FixedZone("IST", 19800)
	}
	return &FileSource{p: p}
}

// Load reads and validates every row. The first malformed row aborts the load.
func (fs *FileSource) Load(ctx context.Context) ([]types.SignalRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raws []Record
	switch strings.ToLower(filepath.Ext(fs.p.Path)) {
	case ".csv":
		raws, err = ReadCSV(f)
	case ".xlsx":
		raws, err = ReadXLSX(f, fs.p.Sheet)
	default:
		return nil, fmt.Errorf("unsupported signal file %s", fs.p.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fs.p.Path, err)
	}

	return parser{loc: fs.p.Location, layouts: fs.p.Layouts}.parseAll(raws)
}

// Parse validates raw records already read by ReadCSV or ReadXLSX.
func Parse(raws []Record, loc *time.Location, layouts []string) ([]types.SignalRow, error) {
	return parser{loc: loc, layouts: layouts}.parseAll(raws)
}

// columnIndex maps header names to positions and fails on the first
// required column the header lacks.
func columnIndex(header []string, line int) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range Required {
		if _, ok := col[h]; !ok {
			return nil, &types.MalformedRowError{Index: 0, Line: line, Field: h, Reason: "missing column"}
		}
	}
	return col, nil
}

// csvSheet feeds gocsv and remembers the line each record starts on.
type csvSheet struct {
	*csv.Reader
	lines []int
}

func (s *csvSheet) ReadAll() ([][]string, error) {
	var recs [][]string
	for {
		rec, err := s.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := s.FieldPos(0)
		recs = append(recs, rec)
		s.lines = append(s.lines, line)
	}
	if len(recs) > 0 {
		if _, err := columnIndex(recs[0], s.lines[0]); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// ReadCSV decodes a CSV signal sheet. UTF-8 and UTF-16 input with a byte
// order mark are both accepted. A header missing a required column fails
// with a MalformedRowError.
func ReadCSV(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	sheet := &csvSheet{Reader: csv.NewReader(decoded)}

	var raws []Record
	if err := gocsv.UnmarshalCSV(sheet, &raws); err != nil {
		return nil, err
	}
	for i := range raws {
		raws[i].Line = sheet.lines[i+1]
	}
	return raws, nil
}

// ReadXLSX reads the named sheet, or the first sheet when sheet is empty.
// Cells are read unformatted, so numbers keep their stored precision and
// date cells arrive as serials.
func ReadXLSX(r io.Reader, sheet string) ([]Record, error) {
	opts := excelize.Options{RawCellValue: true}
	wb, err := excelize.OpenReader(r, opts)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	date1904 := false
	if props, err := wb.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	grid, err := wb.GetRows(sheet, opts)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, nil
	}

	col, err := columnIndex(grid[0], 1)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}

	cell := func(rec []string, name string) string {
		if i := col[name]; i < len(rec) {
			return rec[i]
		}
		return ""
	}

	raws := make([]Record, 0, len(grid)-1)
	for gi, rec := range grid {
		if gi == 0 || isBlank(rec) {
			continue
		}
		raw := Record{
			Stock:    cell(rec, ColStock),
			Datetime: cell(rec, ColDatetime),
			Close:    cell(rec, ColClose),
			Entry:    cell(rec, ColEntry),
			Exit:     cell(rec, ColExit),
			PnL:      cell(rec, ColPnL),
			Line:     gi + 1,
		}
		if raw.Stamp, err = dateSerial(wb, sheet, col[ColDatetime], gi, raw.Datetime, date1904); err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// dateSerial converts a numeric DATETIME cell to its wall-clock time. Text
// cells and blanks return the zero time and are parsed by layout later.
func dateSerial(wb *excelize.File, sheet string, colIdx, rowIdx int, value string, date1904 bool) (time.Time, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return time.Time{}, nil
	}
	name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return time.Time{}, err
	}
	kind, err := wb.GetCellType(sheet, name)
	if err != nil {
		return time.Time{}, err
	}
	if kind == excelize.CellTypeSharedString || kind == excelize.CellTypeInlineString {
		return time.Time{}, nil
	}
	return excelize.ExcelDateToTime(serial, date1904)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
