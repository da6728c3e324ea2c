package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/handlers"
	"github.com/bittumobiles/wholesale_shop/internal/handlers/cart"
	"github.com/bittumobiles/wholesale_shop/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	CartHandler    *cart.CartHandler
	TokenService   *token.TokenService
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/price", d.ProductHandler.QuotePrice)
	products.POST("/:id/reviews", d.ProductHandler.AddReview, d.TokenService.RequireLogin)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	cartGroup := v1.Group("/cart", d.TokenService.RequireLogin)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PATCH("/:productID", d.CartHandler.UpdateQuantity)
	cartGroup.DELETE("/:productID", d.CartHandler.RemoveFromCart)
	cartGroup.DELETE("", d.CartHandler.ClearCart)

	orders := v1.Group("/orders", d.TokenService.RequireLogin)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.GetOrders)

	admin := v1.Group("/admin", d.TokenService.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/orders", d.OrderHandler.GetAllOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
