// Package handlers provides the HTTP handlers of the banner service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nabondance/trailhead-banner-go/internal/application/services"
	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/middleware"
)

// BannerRequest is the request body for banner generation. Options is a
// pointer so an absent object is distinguishable from an explicit one;
// absent means the full default banner.
type BannerRequest struct {
	Username string                   `json:"username" binding:"required"`
	Options  *trailhead.BannerOptions `json:"options"`
}

// BannerHandlers serves the banner generation endpoints.
type BannerHandlers struct {
	bannerService *services.BannerService
	logger        *logging.ChanneledLogger
}

// NewBannerHandlers creates the banner handler set.
func NewBannerHandlers(bannerService *services.BannerService, logger *logging.ChanneledLogger) *BannerHandlers {
	return &BannerHandlers{bannerService: bannerService, logger: logger}
}

// GenerateBanner handles POST /api/v1/banner.
func (h *BannerHandlers) GenerateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	opts := trailhead.DefaultBannerOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	result, err := h.bannerService.Generate(c.Request.Context(), req.Username, opts)
	if err != nil {
		h.respondError(c, req.Username, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateDefaultBanner handles GET /api/v1/banner/:username with default
// options, for quick embedding without a request body.
func (h *BannerHandlers) GenerateDefaultBanner(c *gin.Context) {
	username := c.Param("username")

	result, err := h.bannerService.Generate(c.Request.Context(), username, trailhead.DefaultBannerOptions())
	if err != nil {
		h.respondError(c, username, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BannerHandlers) respondError(c *gin.Context, username string, err error) {
	kind := bannererrors.KindOf(err)
	status := bannererrors.HTTPStatus(kind)
	if h.logger != nil {
		h.logger.Banner().Warn("banner generation failed",
			"requestId", middleware.GetRequestID(c),
			"username", username,
			"kind", string(kind),
			"error", err.Error())
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": string(kind)})
}
