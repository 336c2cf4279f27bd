package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
)

const productBase = "/admin/product"

/*
GET /admin/product
*/
func ListProducts(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(
			c.Query("page"),
			c.Query("limit"),
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, total, err := engine.Products(ctx, (page-1)*limit, limit)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin/product", "internal server error")
			return
		}

		categories, err := engine.Categories(ctx)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] category list failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin/product", "internal server error")
			return
		}

		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		c.JSON(http.StatusOK, gin.H{
			"data":       products,
			"categories": categories,
			"message":    c.Query("message"),
			"type":       c.DefaultQuery("type", "success"),
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

/*
POST /admin/product/add
*/
func AddProduct(engine *catalog.Engine, maxImageBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := parseProductForm(c, maxImageBytes)
		if err != nil {
			redirectWithMessage(c, productBase, invalidArgumentMessage(err), "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := engine.CreateProduct(ctx, input); err != nil {
			switch {
			case errors.Is(err, catalog.ErrInvalidArgument):
				redirectWithMessage(c, productBase, invalidArgumentMessage(err), "error")
			case errors.Is(err, catalog.ErrNotFound):
				redirectWithMessage(c, productBase, "Category not found", "error")
			default:
				log.Println("[PRODUCT] [ERROR] create failed:", err)
				redirectWithMessage(c, productBase, "Server error", "error")
			}
			return
		}

		redirectWithMessage(c, productBase, "Product added successfully", "success")
	}
}

/*
GET /admin/product/edit/:id
*/
func EditProduct(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, productBase, "Invalid product id", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		editProduct, err := engine.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				redirectWithMessage(c, productBase, "Product not found", "error")
				return
			}
			log.Println("[PRODUCT] [ERROR] edit fetch failed:", err)
			redirectWithMessage(c, productBase, "Server error", "error")
			return
		}

		categories, err := engine.Categories(ctx)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] category list failed:", err)
			redirectWithMessage(c, productBase, "Server error", "error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"editProduct": editProduct,
			"categories":  categories,
			"message":     c.Query("message"),
			"type":        c.DefaultQuery("type", "success"),
		})
	}
}

/*
POST /admin/product/update/:id
- reassigning the product to another category also copies that category's
  current name onto it
*/
func UpdateProduct(engine *catalog.Engine, maxImageBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, productBase, "Invalid product id", "error")
			return
		}

		input, err := parseProductForm(c, maxImageBytes)
		if err != nil {
			redirectWithMessage(c, productBase, invalidArgumentMessage(err), "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := engine.UpdateProduct(ctx, id, input); err != nil {
			switch {
			case errors.Is(err, catalog.ErrInvalidArgument):
				redirectWithMessage(c, productBase, invalidArgumentMessage(err), "error")
			case errors.Is(err, catalog.ErrNotFound):
				redirectWithMessage(c, productBase, "Product or category not found", "error")
			default:
				log.Println("[PRODUCT] [ERROR] update failed:", err)
				redirectWithMessage(c, productBase, "Server error", "error")
			}
			return
		}

		redirectWithMessage(c, productBase, "Product updated successfully", "success")
	}
}

/*
POST /admin/product/delete/:id
*/
func DeleteProduct(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, productBase, "Invalid product id", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := engine.DeleteProduct(ctx, id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				redirectWithMessage(c, productBase, "Product not found", "error")
				return
			}
			log.Println("[PRODUCT] [ERROR] delete failed:", err)
			redirectWithMessage(c, productBase, "Server error", "error")
			return
		}

		redirectWithMessage(c, productBase, "Product deleted successfully", "success")
	}
}
