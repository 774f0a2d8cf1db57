// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/curtains-backend/internal/config"
	"github.com/your-org/curtains-backend/internal/domain/cart"
	"github.com/your-org/curtains-backend/internal/interfaces/http/handlers"
	"github.com/your-org/curtains-backend/internal/interfaces/http/middleware"
	"github.com/your-org/curtains-backend/internal/pkg/auth"
)

// SetupCartRoutes sets up cart routes. Carts belong to the bearer token
// subject when one is presented, otherwise to the session cookie.
func SetupCartRoutes(rg *gin.RouterGroup, storage cart.Storage, cfg *config.Config, log *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(storage, cfg, log)

	carts := rg.Group("/cart")
	carts.Use(middleware.OptionalAuthMiddleware(auth.NewVerifier(cfg.JWT)))
	{
		carts.GET("", cartHandler.GetCart)
		carts.GET("/count", cartHandler.GetCartCount)
		carts.DELETE("", cartHandler.ClearCart)

		carts.POST("/items", cartHandler.AddToCart)
		carts.PUT("/items/:id", cartHandler.UpdateCartItem)
		carts.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}
