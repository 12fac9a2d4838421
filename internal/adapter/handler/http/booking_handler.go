package http

import (
	"net/http"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingService    *services.BookingService
	dealershipService *services.DealershipService
	logger            ports.LoggerPort
	metrics           ports.MetricsPort
}

func NewBookingHandler(
	bookingService *services.BookingService,
	dealershipService *services.DealershipService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BookingHandler {
	return &BookingHandler{
		bookingService:    bookingService,
		dealershipService: dealershipService,
		logger:            logger,
		metrics:           metrics,
	}
}

type BookTestDriveRequest struct {
	CarID       string `json:"car_id" binding:"required" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	BookingDate string `json:"booking_date" binding:"required" example:"2026-09-14"`
	StartTime   string `json:"start_time" binding:"required" example:"10:00"`
	EndTime     string `json:"end_time" binding:"required" example:"11:00"`
	Notes       string `json:"notes,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required" example:"CONFIRMED"`
}

type AvailabilityResponse struct {
	Date  string            `json:"date"`
	Slots []domain.TimeSlot `json:"slots"`
}

// @Summary Test drive availability
// @Description Open hourly slots for the car on a date
// @Tags test-drives
// @Produce json
// @Param id path string true "Car ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} AvailabilityResponse "Available slots"
// @Failure 400 {object} errorResponse "Invalid date"
// @Failure 404 {object} errorResponse "Car not found"
// @Router /cars/{id}/availability [get]
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	carID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		newErrorResponse(c, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := h.dealershipService.GetAvailability(c.Request.Context(), carID, date)
	if err != nil {
		h.logger.Error("Failed to compute availability", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
			"date":   date,
		})
		newDomainErrorResponse(c, err, "Failed to compute availability")
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Date: date, Slots: slots})
}

// @Summary Book a test drive
// @Description Reserve an hourly slot for the caller
// @Tags test-drives
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BookTestDriveRequest true "Booking data"
// @Success 201 {object} domain.TestDriveBooking "Booking created"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 409 {object} errorResponse "Slot already booked"
// @Router /test-drives [post]
func (h *BookingHandler) BookTestDrive(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to BookTestDrive", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BookTestDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in book test drive", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid car ID")
		return
	}
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid booking date, expected YYYY-MM-DD")
		return
	}

	booking := &domain.TestDriveBooking{
		CarID:       carID,
		BookingDate: strfmt.Date(bookingDate),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
	}

	created, err := h.bookingService.BookTestDrive(c.Request.Context(), user, booking)
	if err != nil {
		h.logger.Error("Failed to book test drive", map[string]interface{}{
			"error":   err.Error(),
			"car_id":  req.CarID,
			"user_id": user.ID.String(),
		})
		newDomainErrorResponse(c, err, "Failed to book test drive")
		return
	}

	h.logger.Info("Test drive booked", map[string]interface{}{
		"booking_id": created.ID.String(),
		"car_id":     created.CarID.String(),
		"user_id":    created.UserID.String(),
	})
	c.JSON(http.StatusCreated, created)
}

// @Summary My test drives
// @Description All bookings of the caller, newest first
// @Tags test-drives
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.TestDriveBooking "Bookings"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /test-drives/my [get]
func (h *BookingHandler) GetMyTestDrives(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.GetUserTestDrives(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get user test drives", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID.String(),
		})
		newDomainErrorResponse(c, err, "Failed to get test drives")
		return
	}
	if bookings == nil {
		bookings = []*domain.TestDriveBooking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary Cancel a test drive
// @Description Owner or admin cancels an active booking
// @Tags test-drives
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]string "Booking cancelled"
// @Failure 400 {object} errorResponse "Already terminal"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Booking not found"
// @Router /test-drives/{id}/cancel [post]
func (h *BookingHandler) CancelTestDrive(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bookingID := c.Param("id")

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.bookingService.CancelTestDrive(c.Request.Context(), user, bookingID); err != nil {
		h.logger.Error("Failed to cancel test drive", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
			"user_id":    user.ID.String(),
		})
		newDomainErrorResponse(c, err, "Failed to cancel test drive")
		return
	}

	h.logger.Info("Test drive cancelled", map[string]interface{}{
		"booking_id": bookingID,
		"user_id":    user.ID.String(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// @Summary Back-office bookings
// @Description All bookings with car and customer, filtered by status or search
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param search query string false "Search by car or customer"
// @Success 200 {array} domain.TestDriveBooking "Bookings"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/test-drives [get]
func (h *BookingHandler) AdminListBookings(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	status := domain.BookingStatus(c.Query("status"))

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), status, c.Query("search"))
	if err != nil {
		h.logger.Error("Failed to list bookings", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []*domain.TestDriveBooking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary Update booking status
// @Description Move a booking along the status graph
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} map[string]string "Status updated"
// @Failure 400 {object} errorResponse "Invalid transition"
// @Failure 404 {object} errorResponse "Booking not found"
// @Router /admin/test-drives/{id}/status [patch]
func (h *BookingHandler) AdminUpdateBookingStatus(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bookingID := c.Param("id")

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	status := domain.BookingStatus(req.Status)
	switch status {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted,
		domain.BookingCancelled, domain.BookingNoShow:
	default:
		newErrorResponse(c, http.StatusBadRequest, "Invalid booking status")
		return
	}

	if err := h.bookingService.UpdateBookingStatus(c.Request.Context(), bookingID, status); err != nil {
		h.logger.Error("Failed to update booking status", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
			"status":     req.Status,
		})
		newDomainErrorResponse(c, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully"})
}

// @Summary Dashboard
// @Description Inventory and booking statistics for the back office
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.DashboardData "Dashboard data"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/dashboard [get]
func (h *BookingHandler) AdminDashboard(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	data, err := h.bookingService.GetDashboardData(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, data)
}
