package api

import (
	"net/http"
	"time"
)

// HealthHandler handles liveness requests.
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

type healthResponse struct {
	Status      string    `json:"status"`
	CatalogSize int       `json:"catalogSize"`
	Timestamp   time.Time `json:"timestamp"`
}

// HandleHealth handles GET /healthz. The process is live even without a
// catalog; the status then reads "degraded".
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	size := h.stats.CatalogSize()
	status := "ok"
	if size == 0 {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      status,
		CatalogSize: size,
		Timestamp:   time.Now().UTC(),
	})
}
