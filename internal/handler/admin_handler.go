package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/application"
	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/middleware"
	"github.com/driveline-rentals/service-rental/internal/response"
)

// AdminHandler handles fleet, booking and account administration.
type AdminHandler struct {
	bookings *application.BookingService
	vehicles *application.VehicleService
	users    *application.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	vehicles *application.VehicleService,
	users *application.UserService,
) *AdminHandler {
	return &AdminHandler{
		bookings: bookings,
		vehicles: vehicles,
		users:    users,
	}
}

// RegisterRoutes registers all admin routes. Every route requires the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/vehicles", h.CreateVehicle)
		admin.PUT("/vehicles/:id", h.UpdateVehicle)
		admin.DELETE("/vehicles/:id", h.DeleteVehicle)
		admin.POST("/vehicles/:id/maintenance", h.SetMaintenance)

		admin.GET("/bookings", h.ListBookings)
		admin.POST("/bookings/:id/approve", h.ApproveBooking)
		admin.POST("/bookings/:id/reject", h.RejectBooking)
		admin.GET("/bookings/stats", h.GetBookingStats)

		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.ChangeUserRole)
	}
}

// CreateVehicle handles POST /api/v1/admin/vehicles.
func (h *AdminHandler) CreateVehicle(c *gin.Context) {
	var req application.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateVehicle handles PUT /api/v1/admin/vehicles/:id.
func (h *AdminHandler) UpdateVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var req application.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.UpdateVehicle(c.Request.Context(), vehicleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteVehicle handles DELETE /api/v1/admin/vehicles/:id.
func (h *AdminHandler) DeleteVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	if err := h.vehicles.DeleteVehicle(c.Request.Context(), vehicleID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetMaintenance handles POST /api/v1/admin/vehicles/:id/maintenance.
func (h *AdminHandler) SetMaintenance(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var body struct {
		InMaintenance bool   `json:"in_maintenance"`
		Reason        string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.vehicles.SetMaintenance(c.Request.Context(), vehicleID, body.InMaintenance, body.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	status := c.Query("status")

	result, err := h.bookings.ListAllBookings(c.Request.Context(), status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ApproveBooking handles POST /api/v1/admin/bookings/:id/approve.
func (h *AdminHandler) ApproveBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.ApproveBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectBooking handles POST /api/v1/admin/bookings/:id/reject.
func (h *AdminHandler) RejectBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.RejectBooking(c.Request.Context(), bookingID, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	result, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ChangeUserRole handles PUT /api/v1/admin/users/:id/role.
func (h *AdminHandler) ChangeUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.ChangeUserRole(c.Request.Context(), userID, body.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
