// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/curtains-backend/internal/config"
	"github.com/your-org/curtains-backend/internal/domain/cart"
	"github.com/your-org/curtains-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	storage cart.Storage
	pricing cart.Pricing
	config  *config.Config
	log     *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(storage cart.Storage, cfg *config.Config, log *logrus.Logger) *CartHandler {
	return &CartHandler{
		storage: storage,
		pricing: cart.NewPricing(cfg.Cart.TaxRate, cfg.Cart.FreeShippingThreshold, cfg.Cart.FlatShipping),
		config:  cfg,
		log:     log,
	}
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	Items  []cart.LineItem `json:"items"`
	Totals cart.Totals     `json:"totals"`
}

// UpdateCartItemRequest represents update cart item request.
// Zero or negative quantities remove the item.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store := h.store(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.snapshot(c, store),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	count := h.store(c).ItemCount(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.NewLineItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	item, err := store.AddItem(c.Request.Context(), req)
	if errors.Is(err, cart.ErrInvalidItem) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid cart item",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
		"data": gin.H{
			"item": item,
			"cart": h.snapshot(c, store),
		},
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	store.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.snapshot(c, store),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store := h.store(c)
	store.RemoveItem(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.snapshot(c, store),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	store.Clear(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.snapshot(c, store),
	})
}

func (h *CartHandler) snapshot(c *gin.Context, store *cart.Store) CartResponse {
	items := store.ListItems(c.Request.Context())
	return CartResponse{
		Items:  items,
		Totals: h.pricing.Totals(items),
	}
}

// store opens the caller's cart. Recovered storage failures are attached to
// the request so the request logger reports them.
func (h *CartHandler) store(c *gin.Context) *cart.Store {
	entry := h.log.WithField("request_id", c.GetString(middleware.RequestIDKey))

	return cart.NewStore(h.storage, h.cartKey(c),
		cart.WithPricing(h.pricing),
		cart.WithLogger(entry),
		cart.WithErrorHandler(func(op string, err error) {
			_ = c.Error(fmt.Errorf("%s: %w", op, err))
		}),
	)
}

// cartKey scopes the cart to the authenticated user, or to the browser session
func (h *CartHandler) cartKey(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return fmt.Sprintf("%s:user:%s", h.config.Cart.KeyPrefix, userID)
	}
	return fmt.Sprintf("%s:session:%s", h.config.Cart.KeyPrefix, h.getOrCreateSessionID(c))
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	name := h.config.Cart.SessionCookie

	sessionID, err := c.Cookie(name)
	if err == nil {
		if parsed, err := uuid.Parse(sessionID); err == nil {
			return parsed.String()
		}
	}

	sessionID = uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, sessionID, h.config.Cart.SessionMaxAge, "/", "", h.config.IsProduction(), true)

	return sessionID
}
