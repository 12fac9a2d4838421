package http

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarHandler struct {
	carService *services.CarService
	logger     ports.LoggerPort
	metrics    ports.MetricsPort
}

func NewCarHandler(
	carService *services.CarService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CarHandler {
	return &CarHandler{
		carService: carService,
		logger:     logger,
		metrics:    metrics,
	}
}

type CreateCarRequest struct {
	Make         string   `json:"make" binding:"required" example:"Toyota"`
	Model        string   `json:"model" binding:"required" example:"Camry"`
	Year         int      `json:"year" binding:"required" example:"2021"`
	Price        float64  `json:"price" binding:"required" example:"27500"`
	Mileage      int      `json:"mileage" example:"34000"`
	Color        string   `json:"color" binding:"required" example:"Silver"`
	FuelType     string   `json:"fuel_type" binding:"required" example:"Petrol"`
	Transmission string   `json:"transmission" binding:"required" example:"Automatic"`
	BodyType     string   `json:"body_type" binding:"required" example:"Sedan"`
	Seats        *int     `json:"seats,omitempty" example:"5"`
	Description  string   `json:"description" binding:"required"`
	Featured     bool     `json:"featured"`
	Images       []string `json:"images" binding:"required,min=1"`
}

type UpdateCarStatusRequest struct {
	Status   *string `json:"status,omitempty" example:"SOLD"`
	Featured *bool   `json:"featured,omitempty"`
}

type ListCarsResponse struct {
	Cars       []*domain.Car      `json:"cars"`
	Pagination *domain.Pagination `json:"pagination"`
}

type ToggleWishlistResponse struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

type LoanEstimateRequest struct {
	Price       float64 `json:"price" binding:"required" example:"27500"`
	DownPayment float64 `json:"down_payment" example:"5000"`
	AnnualRate  float64 `json:"annual_rate" example:"4.5"`
	TermMonths  int     `json:"term_months" binding:"required" example:"60"`
}

// @Summary List cars
// @Description Paginated inventory listing with filters
// @Tags cars
// @Produce json
// @Param search query string false "Free-text search"
// @Param make query string false "Make filter"
// @Param bodyType query string false "Body type filter"
// @Param fuelType query string false "Fuel type filter"
// @Param transmission query string false "Transmission filter"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sortBy query string false "newest | priceAsc | priceDesc"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListCarsResponse "Car listing"
// @Failure 500 {object} errorResponse "Internal error"
// @Router /cars [get]
func (h *CarHandler) GetCars(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	filters := domain.CarFilters{
		Search:       c.Query("search"),
		Make:         c.Query("make"),
		BodyType:     c.Query("bodyType"),
		FuelType:     c.Query("fuelType"),
		Transmission: c.Query("transmission"),
		SortBy:       domain.CarSort(c.Query("sortBy")),
	}
	filters.MinPrice, _ = strconv.ParseFloat(c.Query("minPrice"), 64)
	filters.MaxPrice, _ = strconv.ParseFloat(c.Query("maxPrice"), 64)
	filters.Page, _ = strconv.Atoi(c.Query("page"))
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))

	var userID *uuid.UUID
	if user, exists := getAuthPayload(c, authPayloadKey); exists {
		userID = &user.ID
	}

	cars, pagination, err := h.carService.GetCars(c.Request.Context(), filters, userID)
	if err != nil {
		h.logger.Error("Failed to list cars", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to list cars")
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}

	c.JSON(http.StatusOK, ListCarsResponse{Cars: cars, Pagination: pagination})
}

// @Summary Listing filter facets
// @Description Distinct filter values and the price range of available inventory
// @Tags cars
// @Produce json
// @Success 200 {object} domain.CarFacets "Facets"
// @Failure 500 {object} errorResponse "Internal error"
// @Router /cars/filters [get]
func (h *CarHandler) GetCarFilters(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	facets, err := h.carService.GetCarFacets(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get car facets", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to get filters")
		return
	}

	c.JSON(http.StatusOK, facets)
}

// @Summary Featured cars
// @Tags cars
// @Produce json
// @Param limit query int false "Number of cars"
// @Success 200 {array} domain.Car "Featured cars"
// @Failure 500 {object} errorResponse "Internal error"
// @Router /cars/featured [get]
func (h *CarHandler) GetFeaturedCars(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	limit, _ := strconv.Atoi(c.Query("limit"))

	cars, err := h.carService.GetFeaturedCars(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get featured cars", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to get featured cars")
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}

	c.JSON(http.StatusOK, cars)
}

// @Summary Car detail
// @Description A single listing with the caller's latest test drive and the dealership schedule
// @Tags cars
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} domain.CarDetail "Car detail"
// @Failure 404 {object} errorResponse "Car not found"
// @Router /cars/{id} [get]
func (h *CarHandler) GetCar(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	carID := c.Param("id")

	var userID *uuid.UUID
	if user, exists := getAuthPayload(c, authPayloadKey); exists {
		userID = &user.ID
	}

	detail, err := h.carService.GetCarByID(c.Request.Context(), carID, userID)
	if err != nil {
		h.logger.Error("Failed to get car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		newDomainErrorResponse(c, err, "Failed to get car")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary Toggle wishlist
// @Description Save the car for the caller, or remove it when already saved
// @Tags wishlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} ToggleWishlistResponse "New wishlist state"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Car not found"
// @Router /cars/{id}/wishlist [post]
func (h *CarHandler) ToggleWishlist(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	carID := c.Param("id")

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to ToggleWishlist", map[string]interface{}{
			"car_id": carID,
			"ip":     c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	saved, err := h.carService.ToggleSavedCar(c.Request.Context(), user.ID, carID)
	if err != nil {
		h.logger.Error("Failed to toggle saved car", map[string]interface{}{
			"error":   err.Error(),
			"car_id":  carID,
			"user_id": user.ID.String(),
		})
		newDomainErrorResponse(c, err, "Failed to update wishlist")
		return
	}

	message := "Car removed from wishlist"
	if saved {
		message = "Car added to wishlist"
	}
	c.JSON(http.StatusOK, ToggleWishlistResponse{Saved: saved, Message: message})
}

// @Summary Saved cars
// @Description The caller's wishlist
// @Tags wishlist
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Car "Saved cars"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /cars/saved [get]
func (h *CarHandler) GetSavedCars(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cars, err := h.carService.GetSavedCars(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get saved cars", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID.String(),
		})
		newDomainErrorResponse(c, err, "Failed to get saved cars")
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}

	c.JSON(http.StatusOK, cars)
}

// @Summary Loan estimate
// @Description Fixed monthly payment for a car loan
// @Tags loan
// @Accept json
// @Produce json
// @Param request body LoanEstimateRequest true "Loan terms"
// @Success 200 {object} domain.LoanEstimate "Estimate"
// @Failure 400 {object} errorResponse "Invalid request"
// @Router /loan/estimate [post]
func (h *CarHandler) EstimateLoan(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoanEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	estimate := domain.EstimateLoan(req.Price, req.DownPayment, req.AnnualRate, req.TermMonths)
	c.JSON(http.StatusOK, estimate)
}

// @Summary Back-office car search
// @Description Inventory across all statuses, optionally narrowed by search
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by make, model or color"
// @Success 200 {array} domain.Car "Cars"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/cars [get]
func (h *CarHandler) AdminListCars(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	cars, err := h.carService.SearchCars(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Error("Failed to search cars", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to search cars")
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}

	c.JSON(http.StatusOK, cars)
}

// @Summary Create car
// @Description Add a listing with base64-encoded images
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCarRequest true "Car data"
// @Success 201 {object} domain.Car "Car created"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/cars [post]
func (h *CarHandler) AdminCreateCar(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create car", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	images := make([]domain.ImageUpload, 0, len(req.Images))
	for _, raw := range req.Images {
		upload, err := decodeImageDataURI(raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid image encoding")
			return
		}
		images = append(images, upload)
	}

	car := &domain.Car{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Color:        req.Color,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Seats:        req.Seats,
		Description:  req.Description,
		Featured:     req.Featured,
	}

	created, err := h.carService.CreateCar(c.Request.Context(), car, images)
	if err != nil {
		h.logger.Error("Failed to create car", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to create car")
		return
	}

	h.logger.Info("Car created successfully", map[string]interface{}{
		"car_id": created.ID.String(),
	})
	c.JSON(http.StatusCreated, created)
}

// @Summary Update car status
// @Description Change listing status or the featured flag
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Car ID"
// @Param request body UpdateCarStatusRequest true "Fields to change"
// @Success 200 {object} map[string]string "Status updated"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 404 {object} errorResponse "Car not found"
// @Router /admin/cars/{id}/status [patch]
func (h *CarHandler) AdminUpdateCarStatus(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	carID := c.Param("id")

	var req UpdateCarStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Status == nil && req.Featured == nil {
		newErrorResponse(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	var status *domain.CarStatus
	if req.Status != nil {
		s := domain.CarStatus(*req.Status)
		switch s {
		case domain.CarAvailable, domain.CarUnavailable, domain.CarSold:
		default:
			newErrorResponse(c, http.StatusBadRequest, "Invalid car status")
			return
		}
		status = &s
	}

	if err := h.carService.UpdateCarStatus(c.Request.Context(), carID, status, req.Featured); err != nil {
		h.logger.Error("Failed to update car status", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		newDomainErrorResponse(c, err, "Failed to update car")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Car updated successfully"})
}

// @Summary Delete car
// @Description Remove a listing and its stored images
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} map[string]string "Car deleted"
// @Failure 404 {object} errorResponse "Car not found"
// @Router /admin/cars/{id} [delete]
func (h *CarHandler) AdminDeleteCar(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	carID := c.Param("id")

	if err := h.carService.DeleteCar(c.Request.Context(), carID); err != nil {
		h.logger.Error("Failed to delete car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		newDomainErrorResponse(c, err, "Failed to delete car")
		return
	}

	h.logger.Info("Car deleted successfully", map[string]interface{}{
		"car_id": carID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

// decodeImageDataURI accepts either a data URI ("data:image/jpeg;base64,...")
// or bare base64 defaulting to JPEG.
func decodeImageDataURI(raw string) (domain.ImageUpload, error) {
	contentType := "image/jpeg"
	payload := raw

	if strings.HasPrefix(raw, "data:") {
		semi := strings.Index(raw, ";base64,")
		if semi < 0 {
			return domain.ImageUpload{}, base64.CorruptInputError(0)
		}
		contentType = raw[len("data:"):semi]
		payload = raw[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.ImageUpload{}, err
	}
	return domain.ImageUpload{Data: data, ContentType: contentType}, nil
}
