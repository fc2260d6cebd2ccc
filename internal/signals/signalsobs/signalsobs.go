package signalsobs

import (
	"context"
	"errors"

	"trade-signal-dashboard/internal/interfaces"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/trace"
	"trade-signal-dashboard/internal/types"
)

// observableSource wraps a SignalSource with logging and tracing
type observableSource struct {
	source interfaces.SignalSource
	name   string
}

var _ interfaces.SignalSource = (*observableSource)(nil)

// Wrap wraps a source; name identifies it in logs (usually the file path).
func Wrap(source interfaces.SignalSource, name string) interfaces.SignalSource {
	return &observableSource{
		source: source,
		name:   name,
	}
}

// Load reads the rows with observability
func (s *observableSource) Load(ctx context.Context) ([]types.SignalRow, error) {
	ctx, span := trace.StartSpan(ctx, "signals.Load")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Loading signal rows", "source", s.name)

	rows, err := s.source.Load(ctx)
	if err != nil {
		var mre *types.MalformedRowError
		if errors.As(err, &mre) {
			logger.ErrorWithErrSkip(ctx, 1, "Malformed signal row", err,
				"source", s.name,
				"row", mre.Index,
				"field", mre.Field,
			)
			return nil, err
		}
		logger.ErrorWithErrSkip(ctx, 1, "Failed to load signal rows", err, "source", s.name)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Signal rows loaded", "source", s.name, "rows", len(rows))
	return rows, nil
}
