package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sangphomma/Siriwong-Inventory-App/pkg/auditlog"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	Service  *LedgerService
	AuditLog *auditlog.Auditlog
}

func NewHandler(service *LedgerService, a *auditlog.Auditlog) *LedgerHandler {
	return &LedgerHandler{Service: service, AuditLog: a}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/stock-locations", h.RegisterStockLocation)
	router.POST("/stock-locations/transfer", h.TransferStock)
	router.GET("/stock-locations/discrepancies", h.GetDiscrepancies)
	router.POST("/products/:id/restock", h.Restock)
	router.GET("/products/:id/stock-locations", h.GetProductStockLocations)
}

func (h *LedgerHandler) RegisterStockLocation(c *gin.Context) {
	var req RegisterStockLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	stockLocation, err := h.Service.RegisterStockAtLocation(req.ProductID, req.LocationID, req.OnHandStock)
	if err != nil {
		h.abortWithError(c, err, "Could not register stock location")
		return
	}

	go h.AuditLog.Log("register", map[string]interface{}{
		"product_id":    req.ProductID,
		"location_id":   req.LocationID,
		"on_hand_stock": req.OnHandStock,
	}, stockLocation)

	c.JSON(http.StatusCreated, stockLocation)
}

func (h *LedgerHandler) TransferStock(c *gin.Context) {
	var req TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Service.TransferStock(req.ProductID, req.FromLocationID, req.ToLocationID, req.Qty); err != nil {
		h.abortWithError(c, err, "Could not transfer stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock transferred successfully"})
}

func (h *LedgerHandler) Restock(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	newStock, err := h.Service.Restock(productID, req.LocationID, req.Qty)
	if err != nil {
		h.abortWithError(c, err, "Could not restock product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": productID, "stock": newStock})
}

func (h *LedgerHandler) GetProductStockLocations(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	stockLocations, err := h.Service.ListLocationStock(productID)
	if err != nil {
		h.abortWithError(c, err, "Could not list stock locations")
		return
	}

	c.JSON(http.StatusOK, stockLocations)
}

func (h *LedgerHandler) GetDiscrepancies(c *gin.Context) {
	discrepancies, err := h.Service.StockDiscrepancies()
	if err != nil {
		h.abortWithError(c, err, "Could not compute stock discrepancies")
		return
	}

	c.JSON(http.StatusOK, discrepancies)
}

func (h *LedgerHandler) abortWithError(c *gin.Context, err error, fallback string) {
	var validationErr *custom_error.ValidationError
	var insufficientErr *custom_error.InsufficientStockError
	var uniqueErr *custom_error.UniqueViolationError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fallback, "details": err.Error()})
	case errors.As(err, &insufficientErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": insufficientErr.ProductID,
			"details":    err.Error(),
		})
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": fallback, "details": err.Error()})
	case errors.Is(err, custom_error.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fallback, "details": err.Error()})
	case errors.Is(err, custom_error.ErrConcurrencyConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Conflicting concurrent update, please retry", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
