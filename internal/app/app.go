// Package app wires configuration, logging and the trade pipeline for the
// commands.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"trade-signal-dashboard/internal/extractor"
	"trade-signal-dashboard/internal/extractor/extractorobs"
	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/lotsize"
	"trade-signal-dashboard/internal/pipeline"
	"trade-signal-dashboard/internal/signals"
	"trade-signal-dashboard/internal/signals/signalsobs"
	"trade-signal-dashboard/internal/store"
	"trade-signal-dashboard/internal/trace"
)

// DefaultConfigPath is used when CONFIG_FILE is not set.
const DefaultConfigPath = "config.yaml"

// InitializeSystem loads .env and sets up the logger and tracer. Logs and
// exported spans go to logOut.
func InitializeSystem(logOut io.Writer) error {
	_ = godotenv.Load()

	if err := logger.Init(logOut); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(logOut); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// LoadConfig reads the config file named by CONFIG_FILE or the default path.
func LoadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// InitializeLotSizes resolves the lot-size table for cfg.
func InitializeLotSizes(ctx context.Context, cfg *store.Config) *lotsize.Table {
	var fetcher lotsize.Fetcher
	if cfg.LotSource == "KITE" {
		ks, err := lotsize.NewKiteSource(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"))
		if err != nil {
			logger.Warn(ctx, "Kite lot source not configured, using static table", "error", err)
		} else {
			fetcher = ks
		}
	}
	table := lotsize.Resolve(ctx, cfg.LotSource, fetcher, cfg.LotSizes)
	logger.Info(ctx, "Lot sizes ready", "source", cfg.LotSource, "instruments", table.Len())
	return table
}

// InitializeSource builds the signal source with observability.
func InitializeSource(cfg *store.Config) interfaces.SignalSource {
	src := signals.NewFileSource(signals.Params{
		Path:     cfg.Signals.Path,
		Sheet:    cfg.Signals.Sheet,
		Location: cfg.Location(),
		Layouts:  cfg.Signals.Layouts,
	})
	return signalsobs.Wrap(src, cfg.Signals.Path)
}

// InitializeExtractor builds the trade extractor with observability.
func InitializeExtractor(lots interfaces.LotSizer) interfaces.TradeExtractor {
	return extractorobs.Wrap(extractor.New(lots))
}

// BuildBook runs the full pipeline for cfg.
func BuildBook(ctx context.Context, cfg *store.Config) (*pipeline.Book, error) {
	lots := InitializeLotSizes(ctx, cfg)
	return pipeline.Build(ctx, InitializeSource(cfg), InitializeExtractor(lots), cfg.Workers)
}
