package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
)

/*
GET /user
- storefront landing: every category with up to 4 of its products
*/
func Home(query *catalog.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		blocks, err := query.HomeBlocks(ctx, 4)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{
			"blocks":   blocks,
			"cart":     sess.Cart,
			"loggedIn": sess.LoggedIn(),
		})
	}
}

/*
GET /user/category
- every category with its full product listing
*/
func CategoryIndex(query *catalog.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/category"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		blocks, err := query.HomeBlocks(ctx, 0)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{
			"blocks":   blocks,
			"cart":     sess.Cart,
			"loggedIn": sess.LoggedIn(),
		})
	}
}

/*
GET /user/product/:categoryId
- product listing plus the brand facets and price range driving the filters
*/
func ProductsByCategory(query *catalog.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/product/:categoryId"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category, products, err := query.ListByCategory(ctx, c.Param("categoryId"))
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrInvalidArgument):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			case errors.Is(err, catalog.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			default:
				log.Printf("[%s] list failed: %v", route, err)
				respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			}
			return
		}

		brands, err := query.FacetBrands(ctx, category.ID)
		if err != nil {
			log.Printf("[%s] facet failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		minPrice, maxPrice, err := query.PriceRange(ctx, category.ID)
		if err != nil {
			log.Printf("[%s] price range failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"products": products,
			"brands":   brands,
			"minPrice": minPrice,
			"maxPrice": maxPrice,
			"cart":     sess.Cart,
			"loggedIn": sess.LoggedIn(),
		})
	}
}

/*
GET /user/search?q=
- type-ahead preview, top 5, JSON array
*/
func Search(query *catalog.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := query.Search(ctx, c.Query("q"))
		if err != nil {
			log.Println("[SEARCH] [ERROR] search failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
