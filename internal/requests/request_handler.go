package requests

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sangphomma/Siriwong-Inventory-App/pkg/auditlog"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	Service    *RequestService
	Repository *RequestRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(service *RequestService, repository *RequestRepository, a *auditlog.Auditlog) *RequestHandler {
	return &RequestHandler{Service: service, Repository: repository, AuditLog: a}
}

func (h *RequestHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/requests", h.CreateRequest)
	router.GET("/requests", h.ListRequests)
	router.GET("/requests/:id", h.GetRequest)
	router.PATCH("/requests/:id/approve", h.ApproveRequest)
	router.PATCH("/requests/:id/reject", h.RejectRequest)
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.Service.CreateRequest(payload)
	if err != nil {
		h.abortWithError(c, err, "Could not create request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	var filter ListRequestsQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	requests, err := h.Repository.ListRequests(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := h.Repository.GetRequest(requestID)
	if err != nil {
		h.abortWithError(c, err, "Could not get request")
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := h.Service.Approve(requestID)
	if err != nil {
		h.abortWithError(c, err, "Could not approve request")
		return
	}

	go h.AuditLog.Log("approve", map[string]interface{}{
		"job_no": request.JobNo,
		"kind":   request.Kind,
		"items":  len(request.Items),
	}, request)

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) RejectRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var payload RejectRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.Service.Reject(requestID, payload.Remark)
	if err != nil {
		h.abortWithError(c, err, "Could not reject request")
		return
	}

	go h.AuditLog.Log("reject", map[string]interface{}{
		"job_no": request.JobNo,
		"remark": payload.Remark,
	}, request)

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) abortWithError(c *gin.Context, err error, fallback string) {
	var validationErr *custom_error.ValidationError
	var insufficientErr *custom_error.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fallback, "details": err.Error()})
	case errors.As(err, &insufficientErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": insufficientErr.ProductID,
			"details":    err.Error(),
		})
	case errors.Is(err, custom_error.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fallback, "details": err.Error()})
	case errors.Is(err, custom_error.ErrInvalidState):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Request is not pending", "details": err.Error()})
	case errors.Is(err, custom_error.ErrConcurrencyConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Conflicting concurrent update, please retry", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
