package http

import (
	"net/http"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
)

type VisionHandler struct {
	visionService *services.VisionService
	logger        ports.LoggerPort
	metrics       ports.MetricsPort
}

func NewVisionHandler(
	visionService *services.VisionService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *VisionHandler {
	return &VisionHandler{
		visionService: visionService,
		logger:        logger,
		metrics:       metrics,
	}
}

type ImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// @Summary Image search
// @Description Extract make, body type and color from a car photo
// @Tags search
// @Accept json
// @Produce json
// @Param request body ImageRequest true "Base64 image or data URI"
// @Success 200 {object} domain.ImageSearchQuery "Extracted query"
// @Failure 400 {object} errorResponse "Invalid image"
// @Failure 429 {object} errorResponse "Rate limit exceeded"
// @Failure 502 {object} errorResponse "Model reply unusable"
// @Router /search/image [post]
func (h *VisionHandler) SearchByImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	upload, err := decodeImageDataURI(req.Image)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid image encoding")
		return
	}

	// Rate limit by user when signed in, by client address otherwise.
	callerKey := c.ClientIP()
	if user, exists := getAuthPayload(c, authPayloadKey); exists {
		callerKey = user.ID.String()
	}

	query, err := h.visionService.ProcessImageSearch(c.Request.Context(), callerKey, upload.Data, upload.ContentType)
	if err != nil {
		h.logger.Error("Image search failed", map[string]interface{}{
			"error":  err.Error(),
			"caller": callerKey,
		})
		newDomainErrorResponse(c, err, "Image search failed")
		return
	}

	c.JSON(http.StatusOK, query)
}

// @Summary AI car scan
// @Description Extract full listing attributes from a car photo
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ImageRequest true "Base64 image or data URI"
// @Success 200 {object} domain.CarDetails "Extracted details"
// @Failure 400 {object} errorResponse "Invalid image"
// @Failure 403 {object} errorResponse "Admin access required"
// @Failure 502 {object} errorResponse "Model reply unusable"
// @Router /admin/cars/ai-scan [post]
func (h *VisionHandler) ScanCarImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	upload, err := decodeImageDataURI(req.Image)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid image encoding")
		return
	}

	details, err := h.visionService.ProcessCarImage(c.Request.Context(), upload.Data, upload.ContentType)
	if err != nil {
		h.logger.Error("AI car scan failed", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "AI scan failed")
		return
	}

	c.JSON(http.StatusOK, details)
}
