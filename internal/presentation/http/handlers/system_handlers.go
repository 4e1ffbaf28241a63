package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nabondance/trailhead-banner-go/internal/application/services"
)

// SystemHandlers serves the health and stats endpoints.
type SystemHandlers struct {
	statsService *services.StatsService
}

// NewSystemHandlers creates the system handler set.
func NewSystemHandlers(statsService *services.StatsService) *SystemHandlers {
	return &SystemHandlers{statsService: statsService}
}

// Health handles GET /api/v1/health.
func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats handles GET /api/v1/stats.
func (h *SystemHandlers) Stats(c *gin.Context) {
	stats, err := h.statsService.Collect()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
