package sites

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	Repository *SiteRepository
}

func NewSiteHandler(r *SiteRepository) *SiteHandler {
	return &SiteHandler{Repository: r}
}

func (h *SiteHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/sites", h.GetSites)
	router.POST("/sites", h.CreateSite)
	router.DELETE("/sites/:id", h.RemoveSite)
}

func (h *SiteHandler) GetSites(c *gin.Context) {
	sites, err := h.Repository.GetSites()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list sites", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sites)
}

func (h *SiteHandler) CreateSite(c *gin.Context) {
	var site models.Site
	if err := c.BindJSON(&site); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistSite(&site)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert site, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert site"})
		return
	}

	c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) RemoveSite(c *gin.Context) {
	siteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	err = h.Repository.RemoveSite(siteID)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete site", "details": err.Error()})
		return
	} else if errors.Is(err, custom_error.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete site", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Site deleted successfully"})
}
