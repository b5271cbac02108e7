package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/GianImpedovo/is-inventoryapp/internal/repository"
	"github.com/GianImpedovo/is-inventoryapp/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

var errPriceNotNumber = errors.New("price must be a JSON number")

// Price is a request price. Only JSON numbers are accepted.
type Price struct {
	decimal.Decimal
}

// UnmarshalJSON rejects quoted prices and otherwise decodes like decimal.Decimal.
func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return errPriceNotNumber
	}
	return p.Decimal.UnmarshalJSON(data)
}

// ProductRequest represents the body of create and update requests.
// Absent or null fields are nil.
type ProductRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Quantity    *int64  `json:"quantity"`
	Price       *Price  `json:"price"`
	Description *string `json:"description"`
}

func (r ProductRequest) toPatch() model.ProductPatch {
	patch := model.ProductPatch{
		Name:        r.Name,
		Category:    r.Category,
		Quantity:    r.Quantity,
		Description: r.Description,
	}
	if r.Price != nil {
		price := r.Price.Decimal
		patch.Price = &price
	}
	return patch
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Category    *string     `json:"category"`
	Quantity    int64       `json:"quantity"`
	Price       json.Number `json:"price"`
	Description *string     `json:"description"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// StatsResponse represents the response body for inventory stats.
type StatsResponse struct {
	TotalProducts   int64       `json:"total_products"`
	TotalItems      int64       `json:"total_items"`
	TotalCategories int64       `json:"total_categories"`
	TotalValue      json.Number `json:"total_value"`
}

// ListProducts handles the HTTP GET request for listing every product.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		response = append(response, toProductResponse(&product))
	}

	c.JSON(http.StatusOK, response)
}

// GetProduct handles the HTTP GET request for a single product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdProduct, err := pc.productService.CreateProduct(c.Request.Context(), req.toPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(createdProduct))
}

// UpdateProduct handles the HTTP PUT request for a partial product update.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedProduct, err := pc.productService.UpdateProduct(c.Request.Context(), id, req.toPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(updatedProduct))
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := pc.productService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Stats handles the HTTP GET request for inventory stats.
func (pc *ProductController) Stats(c *gin.Context) {
	stats, err := pc.productService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalProducts:   stats.TotalProducts,
		TotalItems:      stats.TotalItems,
		TotalCategories: stats.TotalCategories,
		TotalValue:      money(stats.TotalValue),
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		err = repository.ValidateID(id)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	var validationErr *repository.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(model.PriceScale))
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Quantity:    product.Quantity,
		Price:       money(product.Price),
		Description: product.Description,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   product.UpdatedAt.Format(time.RFC3339Nano),
	}
}
