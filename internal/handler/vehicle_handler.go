package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/application"
	"github.com/driveline-rentals/service-rental/internal/response"
)

// VehicleHandler handles public catalog browsing requests.
type VehicleHandler struct {
	service *application.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *application.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers the public vehicle routes. Browsing the catalog
// requires no authentication.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/locations", h.ListLocations)
		vehicles.GET("/:id", h.GetVehicle)
	}
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	page, limit := parsePagination(c)

	minRate, _ := strconv.ParseFloat(c.DefaultQuery("min_rate", "0"), 64)
	maxRate, _ := strconv.ParseFloat(c.DefaultQuery("max_rate", "0"), 64)
	availableOnly := c.DefaultQuery("available_only", "false") == "true"

	q := application.ListVehiclesQuery{
		BodyType:      c.Query("body_type"),
		Location:      c.Query("location"),
		MinRate:       minRate,
		MaxRate:       maxRate,
		Search:        c.Query("search"),
		AvailableOnly: availableOnly,
		Sort:          c.Query("sort"),
		Page:          page,
		Limit:         limit,
	}

	result, err := h.service.ListVehicles(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListLocations handles GET /api/v1/vehicles/locations.
func (h *VehicleHandler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, locations)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := h.service.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
