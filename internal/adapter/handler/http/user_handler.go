package http

import (
	"net/http"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

func NewUserHandler(
	userService *services.UserService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
		metrics:     metrics,
	}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required" example:"ADMIN"`
}

// @Summary Current user
// @Description The caller's profile as resolved from the token
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User "User"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List users
// @Description All registered users, newest first
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.User "Users"
// @Failure 403 {object} errorResponse "Admin access required"
// @Router /admin/settings/users [get]
func (h *UserHandler) AdminListUsers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	users, err := h.userService.GetUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", map[string]interface{}{
			"error": err.Error(),
		})
		newDomainErrorResponse(c, err, "Failed to list users")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Change user role
// @Description Promote or demote a user
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRoleRequest true "Target role"
// @Success 200 {object} map[string]string "Role updated"
// @Failure 400 {object} errorResponse "Invalid role"
// @Failure 404 {object} errorResponse "User not found"
// @Router /admin/settings/users/{id}/role [patch]
func (h *UserHandler) AdminUpdateUserRole(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	userID := c.Param("id")

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	role := domain.UserRole(req.Role)
	if role != domain.RoleUser && role != domain.RoleAdmin {
		newErrorResponse(c, http.StatusBadRequest, "Invalid role")
		return
	}

	if err := h.userService.UpdateUserRole(c.Request.Context(), userID, role); err != nil {
		h.logger.Error("Failed to update user role", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
			"role":    req.Role,
		})
		newDomainErrorResponse(c, err, "Failed to update role")
		return
	}

	h.logger.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    req.Role,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}
