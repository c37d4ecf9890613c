package catalog

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/gin-gonic/gin"
)

type ProductPayload struct {
	Name       string `json:"name" binding:"required"`
	Unit       string `json:"unit" binding:"required"`
	CategoryID int    `json:"category_id"`
}

type UpdateProductPayload struct {
	Name       *string `json:"name"`
	Unit       *string `json:"unit"`
	CategoryID *int    `json:"category_id"`
}

type ListProductsQuery struct {
	Search     string `form:"search"`
	CategoryID int    `form:"category_id"`
}

type ProductHandler struct {
	Repository *ProductRepository
}

func NewProductHandler(r *ProductRepository) *ProductHandler {
	return &ProductHandler{Repository: r}
}

func (h *ProductHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.POST("/products", h.CreateProduct)
	router.PATCH("/products/:id", h.UpdateProduct)
	router.DELETE("/products/:id", h.RemoveProduct)
	router.GET("/categories", h.ListCategories)
	router.POST("/categories", h.CreateCategory)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	products, err := h.Repository.ListProducts(query)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.Repository.GetProduct(productID)
	if errors.Is(err, custom_error.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var payload ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	product, err := h.Repository.PersistProduct(payload)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Product name already exists", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var payload UpdateProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	product, err := h.Repository.UpdateProduct(productID, payload)
	if err != nil {
		var validationErr *custom_error.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not update product", "details": err.Error()})
		case errors.Is(err, custom_error.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update product", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) RemoveProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	err = h.Repository.RemoveProduct(productID)
	if err != nil {
		var validationErr *custom_error.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Product is still referenced by open requests", "details": err.Error()})
		case errors.Is(err, custom_error.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		default:
			if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete product", "details": err.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete product", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.Repository.ListCategories()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	err := h.Repository.PersistCategory(&category)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Category name already exists", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert category", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}
