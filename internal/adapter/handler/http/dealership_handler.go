package http

import (
	"net/http"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
)

type DealershipHandler struct {
	dealershipService *services.DealershipService
	logger            ports.LoggerPort
	metrics           ports.MetricsPort
}

func NewDealershipHandler(
	dealershipService *services.DealershipService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *DealershipHandler {
	return &DealershipHandler{
		dealershipService: dealershipService,
		logger:            logger,
		metrics:           metrics,
	}
}

type WorkingHourRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required" example:"MONDAY"`
	OpenTime  string `json:"open_time" binding:"required" example:"09:00"`
	CloseTime string `json:"close_time" binding:"required" example:"18:00"`
	IsOpen    bool   `json:"is_open"`
}

type SaveWorkingHoursRequest struct {
	WorkingHours []WorkingHourRequest `json:"working_hours" binding:"required,min=1"`
}

// @Summary Dealership info
// @Description Contact details and the weekly schedule
// @Tags dealership
// @Produce json
// @Success 200 {object} domain.DealershipInfo "Dealership"
// @Failure 500 {object} errorResponse "Internal error"
// @Router /dealership [get]
func (h *DealershipHandler) GetDealership(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	info, err := h.dealershipService.GetDealershipInfo(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get dealership info", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to get dealership info")
		return
	}

	c.JSON(http.StatusOK, info)
}

// @Summary Save working hours
// @Description Replace the weekly schedule; all seven days must be present
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SaveWorkingHoursRequest true "Weekly schedule"
// @Success 200 {object} map[string]string "Schedule saved"
// @Failure 400 {object} errorResponse "Invalid schedule"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/settings/working-hours [put]
func (h *DealershipHandler) SaveWorkingHours(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req SaveWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	hours := make([]domain.WorkingHour, 0, len(req.WorkingHours))
	for _, wh := range req.WorkingHours {
		hours = append(hours, domain.WorkingHour{
			DayOfWeek: domain.DayOfWeek(wh.DayOfWeek),
			OpenTime:  wh.OpenTime,
			CloseTime: wh.CloseTime,
			IsOpen:    wh.IsOpen,
		})
	}

	if err := h.dealershipService.SaveWorkingHours(c.Request.Context(), hours); err != nil {
		h.logger.Error("Failed to save working hours", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to save working hours")
		return
	}

	h.logger.Info("Working hours updated", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Working hours saved successfully"})
}
