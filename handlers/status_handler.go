package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimosphere-network/airo-wingman/services"
	"github.com/aimosphere-network/airo-wingman/stats"
)

// StatusHandler reports operational counters: served-model count, bids and
// responses submitted, and the last critical-task error, if any.
type StatusHandler struct {
	repo  services.ModelRepository
	stats *stats.Stats
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(repo services.ModelRepository, metrics *stats.Stats) *StatusHandler {
	return &StatusHandler{repo: repo, stats: metrics}
}

type statusResponse struct {
	ModelsServed int `json:"modelsServed"`
	stats.Snapshot
}

// Status handles GET /v1/status.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		ModelsServed: len(h.repo.List()),
		Snapshot:     h.stats.Snapshot(),
	})
}
