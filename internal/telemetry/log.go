package telemetry

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger at level ("debug", "info", "warn" or
// "error"). An empty level means info.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
