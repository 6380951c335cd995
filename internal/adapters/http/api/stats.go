package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves service counters plus the handler's own uptime.
type StatsHandler struct {
	statsProvider StatsProvider
	startedAt     time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, startedAt: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := maps.Clone(h.statsProvider.GetStats())
	if stats == nil {
		stats = make(map[string]any, 1)
	}
	stats["uptimeSeconds"] = int(time.Since(h.startedAt).Seconds())
	writeJSON(w, http.StatusOK, stats)
}
