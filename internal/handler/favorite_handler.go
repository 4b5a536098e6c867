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

// FavoriteHandler handles HTTP requests for saved vehicles.
type FavoriteHandler struct {
	service *application.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(service *application.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// RegisterRoutes registers the favorite routes. All require authentication.
func (h *FavoriteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	favorites := r.Group("/api/v1/favorites")
	favorites.Use(middleware.AuthMiddleware(jwtManager))
	{
		favorites.GET("", h.ListFavorites)
		favorites.PUT("/:vehicleId", h.AddFavorite)
		favorites.DELETE("/:vehicleId", h.RemoveFavorite)
	}
}

// ListFavorites handles GET /api/v1/favorites.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddFavorite handles PUT /api/v1/favorites/:vehicleId.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.AddFavorite(c.Request.Context(), userID, vehicleID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RemoveFavorite handles DELETE /api/v1/favorites/:vehicleId.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), userID, vehicleID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
