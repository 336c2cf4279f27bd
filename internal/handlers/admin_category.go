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
)

const categoryBase = "/admin/category"

/*
GET /admin/category
*/
func ListCategories(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categories, err := engine.Categories(ctx)
		if err != nil {
			log.Println("[CATEGORY] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET /admin/category", "internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":    categories,
			"message": c.Query("message"),
			"type":    c.DefaultQuery("type", "success"),
		})
	}
}

/*
POST /admin/category/add
- duplicate names rejected with Conflict
*/
func AddCategory(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := engine.CreateCategory(ctx, name); err != nil {
			switch {
			case errors.Is(err, catalog.ErrConflict):
				redirectWithMessage(c, categoryBase, "Category already exists", "error")
			case errors.Is(err, catalog.ErrInvalidArgument):
				redirectWithMessage(c, categoryBase, invalidArgumentMessage(err), "error")
			default:
				log.Println("[CATEGORY] [ERROR] create failed:", err)
				redirectWithMessage(c, categoryBase, "Server error", "error")
			}
			return
		}

		redirectWithMessage(c, categoryBase, "Category added successfully", "success")
	}
}

/*
GET /admin/category/edit/:id
*/
func EditCategory(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, categoryBase, "Invalid category id", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		editCategory, err := engine.GetCategory(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				redirectWithMessage(c, categoryBase, "Category not found", "error")
				return
			}
			log.Println("[CATEGORY] [ERROR] edit fetch failed:", err)
			redirectWithMessage(c, categoryBase, "Server error", "error")
			return
		}

		categories, err := engine.Categories(ctx)
		if err != nil {
			log.Println("[CATEGORY] [ERROR] list failed:", err)
			redirectWithMessage(c, categoryBase, "Server error", "error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"editCategory": editCategory,
			"data":         categories,
			"message":      c.Query("message"),
			"type":         c.DefaultQuery("type", "success"),
		})
	}
}

/*
POST /admin/category/update/:id
- renames the category and rewrites the name mirror on its products; a
  cascade failure redirects with its own message, never a blanket success
*/
func UpdateCategory(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, categoryBase, "Invalid category id", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if _, err := engine.RenameCategory(ctx, id, c.PostForm("name")); err != nil {
			switch {
			case catalog.IsPartialCascade(err):
				redirectWithMessage(c, categoryBase,
					"Category renamed but some products may still show the old name", "error")
			case errors.Is(err, catalog.ErrNotFound):
				redirectWithMessage(c, categoryBase, "Category not found", "error")
			case errors.Is(err, catalog.ErrConflict):
				redirectWithMessage(c, categoryBase, "Category already exists", "error")
			case errors.Is(err, catalog.ErrInvalidArgument):
				redirectWithMessage(c, categoryBase, invalidArgumentMessage(err), "error")
			default:
				log.Println("[CATEGORY] [ERROR] rename failed:", err)
				redirectWithMessage(c, categoryBase, "Server error", "error")
			}
			return
		}

		redirectWithMessage(c, categoryBase, "Category updated successfully", "success")
	}
}

/*
POST /admin/category/delete/:id
- destructive cascade: the category goes first, then its products
*/
func DeleteCategory(engine *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			redirectWithMessage(c, categoryBase, "Invalid category id", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := engine.DeleteCategory(ctx, id); err != nil {
			switch {
			case catalog.IsPartialCascade(err):
				redirectWithMessage(c, categoryBase,
					"Category deleted but some of its products could not be removed", "error")
			case errors.Is(err, catalog.ErrNotFound):
				redirectWithMessage(c, categoryBase, "Category not found", "error")
			default:
				log.Println("[CATEGORY] [ERROR] delete failed:", err)
				redirectWithMessage(c, categoryBase, "Server error", "error")
			}
			return
		}

		redirectWithMessage(c, categoryBase, "Category and products deleted successfully", "success")
	}
}
