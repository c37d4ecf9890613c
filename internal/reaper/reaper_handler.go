package reaper

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ReaperHandler struct {
	Reaper *Reaper
}

func NewHandler(r *Reaper) *ReaperHandler {
	return &ReaperHandler{Reaper: r}
}

func (h *ReaperHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/admin/reaper/run", h.RunSweep)
}

func (h *ReaperHandler) RunSweep(c *gin.Context) {
	maxAgeDays := DefaultMaxAgeDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		maxAgeDays = parsed
	}

	deleted, err := h.Reaper.Run(maxAgeDays)
	if err != nil {
		var validationErr *custom_error.ValidationError
		if errors.As(err, &validationErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid sweep parameters", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
