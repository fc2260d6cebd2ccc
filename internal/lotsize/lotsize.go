package lotsize

// Table maps an instrument to its contract multiplier. It is never mutated
// after construction and can be shared across goroutines.
type Table struct {
	sizes map[string]int
}

// New builds a table from the given mapping. Later maps override earlier ones.
func New(maps ...map[string]int) *Table {
	sizes := make(map[string]int)
	for _, m := range maps {
		for sym, n := range m {
			sizes[sym] = n
		}
	}
	return &Table{sizes: sizes}
}

// Default returns the NSE F&O lot sizes used by the dashboard.
func Default() *Table {
	return New(NSEDefaults)
}

// Lookup returns the lot size for instrument, or 1 when it is unknown.
func (t *Table) Lookup(instrument string) int {
	if t == nil {
		return 1
	}
	if n, ok := t.sizes[instrument]; ok && n > 0 {
		return n
	}
	return 1
}

// Len returns the number of mapped instruments.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sizes)
}

// With returns a new table with overrides applied on top of t.
func (t *Table) With(overrides map[string]int) *Table {
	if t == nil {
		return New(overrides)
	}
	return New(t.sizes, overrides)
}

// NSEDefaults are the contract multipliers of the Nifty 50 futures.
var NSEDefaults = map[string]int{
	"ADANIENT": 300, "ADANIPORTS": 475, "ASIANPAINT": 250, "AXISBANK": 625,
	"BAJAJ-AUTO": 75, "BAJAJFINSV": 500, "BAJFINANCE": 750, "BHARTIARTL": 475,
	"BPCL": 1975, "BRITANNIA": 125, "CIPLA": 375, "COALINDIA": 1350,
	"DIVISLAB": 100, "DRREDDY": 625, "EICHERMOT": 175, "GRASIM": 250,
	"HCLTECH": 350, "HDFCBANK": 550, "HDFCLIFE": 1100, "HEROMOTOCO": 150,
	"HINDALCO": 1400, "HINDUNILVR": 300, "ICICIBANK": 700, "INDUSINDBK": 700,
	"INFY": 400, "ITC": 1600, "JSWSTEEL": 675, "KOTAKBANK": 400, "LT": 175,
	"M&M": 200, "MARUTI": 50, "NESTLEIND": 250, "NTPC": 1500, "ONGC": 2250,
	"POWERGRID": 1900, "RELIANCE": 500, "SBILIFE": 375, "SBIN": 750,
	"SHREECEM": 25, "SUNPHARMA": 350, "TATACONSUM": 550, "TATAMOTORS": 800,
	"TATASTEEL": 5500, "TCS": 175, "TECHM": 600, "TITAN": 175,
	"ULTRACEMCO": 50, "UPL": 1355, "WIPRO": 3000,
}
