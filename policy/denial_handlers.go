package policy

import (
	"log/slog"
)

// Ensure implementations satisfy the interface.
var (
	_ DenialHandler = (*LogDenialHandler)(nil)
	_ DenialHandler = (*NopDenialHandler)(nil)
)

// LogDenialHandler logs denials through slog.
type LogDenialHandler struct {
	Logger *slog.Logger
}

func (h *LogDenialHandler) OnDenial(kind string, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("exchange denied", "kind", kind, "reason", reason)
}

// NopDenialHandler does nothing.
type NopDenialHandler struct{}

func (h *NopDenialHandler) OnDenial(kind string, reason string) {}
