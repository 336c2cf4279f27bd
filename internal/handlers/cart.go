package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

type CartAddRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type CartRemoveRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

/*
GET /user/cart
*/
func GetCart(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"cart": sess.Cart})
	}
}

/*
POST /user/cart/add
- the product must exist; quantities merge into an existing line
*/
func AddToCart(store catalog.ProductStore, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := store.FindProductByID(ctx, productID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			log.Println("[CART] [ERROR] product lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		sess := middleware.CurrentSession(c)
		sess.AddToCart(req.ProductID, req.Quantity)
		if err := mgr.Save(ctx, sess); err != nil {
			log.Println("[CART] [ERROR] session save failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": sess.Cart})
	}
}

/*
POST /user/cart/remove
*/
func RemoveFromCart(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartRemoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		sess.RemoveFromCart(req.ProductID)
		if err := mgr.Save(c.Request.Context(), sess); err != nil {
			log.Println("[CART] [ERROR] session save failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": sess.Cart})
	}
}
