package controller

import (
	"log/slog"
	"net/http"

	"github.com/GianImpedovo/is-inventoryapp/internal/service"
	"github.com/gin-gonic/gin"
)

// Controller handles general HTTP requests.
type Controller struct {
	productService *service.ProductService
}

// New creates a new Controller backed by the given product service.
func New(productService *service.ProductService) *Controller {
	return &Controller{
		productService: productService,
	}
}

// Health handles the HTTP GET request for the health check endpoint.
// It reports the store as unreachable with a 500.
func (con *Controller) Health(c *gin.Context) {
	if err := con.productService.Health(c.Request.Context()); err != nil {
		slog.Error("Health check failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"db": true,
	})
}
