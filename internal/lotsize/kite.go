package lotsize

import (
	"context"
	"errors"
	"fmt"
	"math"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"trade-signal-dashboard/internal/logger"
)

const derivativesExchange = "NFO"

// instrumentLister is the part of the Kite client used here.
type instrumentLister interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
}

// Fetcher loads lot sizes from an external source.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]int, error)
}

// KiteSource pulls futures lot sizes from the Kite instruments dump.
type KiteSource struct {
	kc instrumentLister
}

// NewKiteSource creates a source backed by a Kite Connect client.
func NewKiteSource(apiKey, accessToken string) (*KiteSource, error) {
	if apiKey == "" || accessToken == "" {
		return nil, errors.New("KITE_API_KEY and KITE_ACCESS_TOKEN are required for lot_source KITE")
	}
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{kc: kc}, nil
}

// Fetch returns underlying -> lot size using the nearest-expiry future of
// each underlying.
func (ks *KiteSource) Fetch(ctx context.Context) (map[string]int, error) {
	timer := logger.StartOperation(ctx, "lotsize.KiteFetch", "exchange", derivativesExchange)

	instruments, err := ks.kc.GetInstrumentsByExchange(derivativesExchange)
	if err != nil {
		err = fmt.Errorf("fetch %s instruments: %w", derivativesExchange, err)
		timer.EndWithError(err)
		return nil, err
	}

	sizes := lotSizesFromInstruments(instruments)
	timer.End("instruments", len(instruments), "underlyings", len(sizes))
	return sizes, nil
}

func lotSizesFromInstruments(instruments kiteconnect.Instruments) map[string]int {
	sizes := make(map[string]int)
	nearest := make(map[string]kiteconnect.Instrument)
	for _, inst := range instruments {
		if inst.InstrumentType != "FUT" || inst.Name == "" || inst.LotSize <= 0 {
			continue
		}
		cur, seen := nearest[inst.Name]
		if !seen || inst.Expiry.Time.Before(cur.Expiry.Time) {
			nearest[inst.Name] = inst
		}
	}
	for name, inst := range nearest {
		sizes[name] = int(math.Round(float64(inst.LotSize)))
	}
	return sizes
}

// Resolve builds the lot-size table for the given source. Static uses the
// built-in NSE values; KITE refreshes them from the broker and falls back to
// the static values when the broker is unreachable. Overrides always win.
func Resolve(ctx context.Context, source string, fetcher Fetcher, overrides map[string]int) *Table {
	base := Default()
	if source == "KITE" && fetcher != nil {
		live, err := fetcher.Fetch(ctx)
		if err != nil {
			logger.Warn(ctx, "Kite lot sizes unavailable, using static table", "error", err)
		} else {
			logger.Info(ctx, "Loaded lot sizes from Kite", "underlyings", len(live))
			base = base.With(live)
		}
	}
	return base.With(overrides)
}
