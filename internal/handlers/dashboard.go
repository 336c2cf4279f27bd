package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

/*
GET /admin
*/
func Dashboard(store catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categories, err := store.CountCategories(ctx)
		if err != nil {
			log.Println("[ADMIN] [ERROR] category count failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin", "internal server error")
			return
		}
		products, err := store.CountProducts(ctx)
		if err != nil {
			log.Println("[ADMIN] [ERROR] product count failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin", "internal server error")
			return
		}
		users, err := store.CountUsers(ctx)
		if err != nil {
			log.Println("[ADMIN] [ERROR] user count failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin", "internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"categories": categories,
			"products":   products,
			"users":      users,
		})
	}
}
