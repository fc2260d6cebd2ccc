package report

import (
	"strconv"
	"strings"
	"time"

	"trade-signal-dashboard/internal/types"
)

// Sentinels shown by selectors for "no constraint".
const (
	AllStocks = "All Stocks"
	AllYears  = "All Years"
	AllMonths = "All Months"
)

// Filter holds optional equality constraints. A zero field is unconstrained.
type Filter struct {
	Instrument string
	Year       int
	Month      string

	// empty forces an empty result; set when a selection cannot match anything
	empty bool
}

// ParseFilter builds a filter from selector values. Blank values and the
// "All ..." sentinels mean no constraint. A year or month that cannot be
// parsed matches nothing instead of failing.
func ParseFilter(instrument, year, month string) Filter {
	var f Filter

	if v := strings.TrimSpace(instrument); v != "" && v != AllStocks {
		f.Instrument = v
	}

	if v := strings.TrimSpace(year); v != "" && v != AllYears {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			f.empty = true
		} else {
			f.Year = n
		}
	}

	if v := strings.TrimSpace(month); v != "" && v != AllMonths {
		if m, ok := monthName(v); ok {
			f.Month = m
		} else {
			f.empty = true
		}
	}

	return f
}

// Matches reports whether t satisfies every active constraint.
func (f Filter) Matches(t types.EnrichedTrade) bool {
	if f.empty {
		return false
	}
	if f.Instrument != "" && t.Instrument != f.Instrument {
		return false
	}
	if f.Year != 0 && t.Year != f.Year {
		return false
	}
	if f.Month != "" && t.Month != f.Month {
		return false
	}
	return true
}

// Apply returns the trades matching f in their original order.
func (f Filter) Apply(trades []types.EnrichedTrade) []types.EnrichedTrade {
	out := make([]types.EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Selection returns the selector values for f, using sentinels for
// unconstrained fields.
func (f Filter) Selection() (instrument, year, month string) {
	instrument, year, month = AllStocks, AllYears, AllMonths
	if f.Instrument != "" {
		instrument = f.Instrument
	}
	if f.Year != 0 {
		year = strconv.Itoa(f.Year)
	}
	if f.Month != "" {
		month = f.Month
	}
	return instrument, year, month
}

func monthName(s string) (string, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n).String(), true
		}
		return "", false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) || strings.EqualFold(m.String()[:3], s) {
			return m.String(), true
		}
	}
	return "", false
}
