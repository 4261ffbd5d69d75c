package config

import (
	"log/slog"
	"strconv"
	"strings"
)

// ResolveBatch converts the configured batch value into a selection limit.
// Zero, negative, and non-numeric values all resolve to unlimited (0); a
// non-numeric value is reported as an error before falling open. A positive
// value caps the batch.
func (c *Config) ResolveBatch(logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	raw := strings.TrimSpace(c.Batch)
	if raw == "" {
		return 0
	}

	batch, err := strconv.Atoi(raw)
	if err != nil {
		logger.Error("batch is not an integer, falling back to unlimited", "batch", raw)
		return 0
	}
	switch {
	case batch == 0:
		logger.Info("batch is 0, selection is unlimited")
		return 0
	case batch < 0:
		logger.Warn("batch must be positive, falling back to unlimited", "batch", batch)
		return 0
	default:
		logger.Info("batch limit set", "batch", batch)
		return batch
	}
}
