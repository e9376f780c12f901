package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/veranemoloko/range-downloader/internal/progress"
)

// StatusProvider exposes the progress of the running download.
type StatusProvider interface {
	Snapshot() progress.Snapshot
}

// StatusHandler serves download progress over HTTP.
type StatusHandler struct {
	status StatusProvider
	logger *slog.Logger
}

// NewStatusHandler creates a new StatusHandler with the provided status source and logger.
func NewStatusHandler(status StatusProvider, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		status: status,
		logger: logger,
	}
}

// GetStatus handles GET /status and returns the current progress snapshot.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.status.Snapshot()
	h.logger.Debug("status requested", "remote", r.RemoteAddr, "percent", snapshot.Percent)
	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
