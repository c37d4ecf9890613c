package locations

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/gin-gonic/gin"
)

type UpdateLocationRequest struct {
	Name    *string `json:"name"`
	Details *string `json:"details"`
}

type LocationHandler struct {
	Repository *LocationRepository
}

func NewLocationHandler(r *LocationRepository) *LocationHandler {
	return &LocationHandler{Repository: r}
}

func (h *LocationHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/locations", h.CreateLocation)
	router.GET("/locations", h.GetLocations)
	router.GET("/locations/:id/stock", h.GetLocationStock)
	router.PATCH("/locations/:id", h.UpdateLocation)
	router.DELETE("/locations/:id", h.RemoveLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Repository.GetLocations()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var location models.Location
	if err := c.BindJSON(&location); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistLocation(&location)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert location, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert location"})
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) GetLocationStock(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	stock, err := h.Repository.GetLocationStock(locationID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stock)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	location, err := h.Repository.UpdateLocation(locationID, req)
	if err != nil {
		var validationErr *custom_error.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not update location", "details": err.Error()})
		case errors.Is(err, custom_error.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update location", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	err = h.Repository.RemoveLocation(locationID)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete location", "details": err.Error()})
		return
	} else if errors.Is(err, custom_error.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
