package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
)

// ProductImage streams the embedded product picture verbatim: the stored
// bytes with the stored content type, no transformation. Missing owner or
// missing image both yield 404.
func ProductImage(store catalog.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := store.FindProductByID(ctx, id)
		if err != nil || product.ProductPic.Empty() {
			if err != nil {
				log.Println("[IMAGE] [ERROR] product image fetch failed:", err)
			}
			c.Status(http.StatusNotFound)
			return
		}

		c.Data(http.StatusOK, product.ProductPic.ContentType, product.ProductPic.Data)
	}
}

// ProfileImage does the same for a user's profile picture.
func ProfileImage(store catalog.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := store.FindUserByID(ctx, id)
		if err != nil || user.ProfilePic.Empty() {
			if err != nil {
				log.Println("[IMAGE] [ERROR] profile image fetch failed:", err)
			}
			c.Status(http.StatusNotFound)
			return
		}

		c.Data(http.StatusOK, user.ProfilePic.ContentType, user.ProfilePic.Data)
	}
}
