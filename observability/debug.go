package observability

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// LogSink writes merged mission debug snapshots to a logger at debug level.
// It satisfies assault.DebugSink.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(mission string, snapshot map[string]any) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := make([]any, 0, 2+2*len(snapshot))
	attrs = append(attrs, "mission", mission)
	for _, k := range slices.Sorted(maps.Keys(snapshot)) {
		attrs = append(attrs, k, snapshot[k])
	}
	logger.Debug("mission debug", attrs...)
}
