package http

import (
	"github.com/GianImpedovo/is-inventoryapp/internal/http/controller"
	"github.com/GianImpedovo/is-inventoryapp/internal/http/middleware"
	"github.com/gin-gonic/gin"
)

// InitRouter mounts the inventory routes on server, both at the root and under /api.
func InitRouter(server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	registerRoutes(&server.RouterGroup, ctr, productCtr)
	registerRoutes(server.Group("/api"), ctr, productCtr)

	return server
}

func registerRoutes(group *gin.RouterGroup, ctr *controller.Controller, productCtr *controller.ProductController) {
	group.GET("/health", ctr.Health)
	group.GET("/stats", productCtr.Stats)

	// Product endpoints
	products := group.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.POST("", productCtr.CreateProduct)
		products.GET("/:id", productCtr.GetProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}
}
