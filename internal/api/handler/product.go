package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhvu/coolsearch/internal/service"
	"gorm.io/gorm"
)

// ProductHandler handles catalog browsing endpoints.
type ProductHandler struct {
	searchService *service.SearchService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(searchService *service.SearchService) *ProductHandler {
	return &ProductHandler{
		searchService: searchService,
	}
}

// ListProducts handles GET /api/v1/products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	category := c.Query("category")

	result, err := h.searchService.ListProducts(c.Request.Context(), category, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list products: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.searchService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get product: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}
