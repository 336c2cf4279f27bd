package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
)

// ProfileUpdateRequest carries the same email and password constraints as
// signup; the email stays a valid login key and a password change keeps the
// minimum length.
type ProfileUpdateRequest struct {
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	OldPassword string `form:"oldPassword"`
	NewPassword string `form:"newPassword" binding:"omitempty,min=6"`
}

// GetProfile serves the logged-in principal's own record, looked up fresh on
// every request rather than read from a session snapshot.
func GetProfile(store catalog.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		userID, err := primitive.ObjectIDFromHex(sess.UserID)
		if err != nil {
			c.Redirect(http.StatusFound, "/user/login?message=Please+login")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := store.FindUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.Redirect(http.StatusFound, "/user/login?message=User+not+found")
				return
			}
			log.Println("[PROFILE] [ERROR] fetch failed:", err)
			respondWithError(c, http.StatusInternalServerError, "GET profile", "internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":    user,
			"message": c.Query("message"),
			"type":    c.DefaultQuery("type", "success"),
		})
	}
}

// UpdateProfile updates name/email, changes the password when the old one
// verifies, and stores an uploaded profile picture bounded by maxImageBytes.
// base distinguishes the shopper and admin mounts of the same flow.
func UpdateProfile(store catalog.UserStore, base string, maxImageBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		userID, err := primitive.ObjectIDFromHex(sess.UserID)
		if err != nil {
			c.Redirect(http.StatusFound, "/user/login?message=Please+login")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := store.FindUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.Redirect(http.StatusFound, "/user/login?message=User+not+found")
				return
			}
			log.Println("[PROFILE] [ERROR] fetch failed:", err)
			redirectWithMessage(c, base, "Server error", "error")
			return
		}

		var req ProfileUpdateRequest
		if err := c.ShouldBind(&req); err != nil {
			log.Println("[PROFILE] [ERROR] update validation failed:", err)
			redirectWithMessage(c, base, "Name, a valid email and a new password of at least 6 characters are required", "error")
			return
		}
		user.Name = strings.TrimSpace(req.Name)
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if req.OldPassword != "" && req.NewPassword != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
				log.Println("[PROFILE] [ERROR] password change: old password incorrect for", user.ID.Hex())
				redirectWithMessage(c, base, "Old password incorrect", "error")
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Println("[PROFILE] [ERROR] password hash failed:", err)
				redirectWithMessage(c, base, "Server error", "error")
				return
			}
			user.PasswordHash = string(hash)
		}

		if file, err := c.FormFile("profilePic"); err == nil {
			image, err := readImageFile(file, maxImageBytes)
			if err != nil {
				redirectWithMessage(c, base, invalidArgumentMessage(err), "error")
				return
			}
			user.ProfilePic = image
		}

		user.UpdatedAt = time.Now()

		if err := store.ReplaceUser(ctx, user); err != nil {
			if errors.Is(err, catalog.ErrConflict) {
				redirectWithMessage(c, base, "Email already registered", "error")
				return
			}
			log.Println("[PROFILE] [ERROR] update failed:", err)
			redirectWithMessage(c, base, "Server error", "error")
			return
		}

		log.Println("[PROFILE] [INFO] profile updated:", user.ID.Hex())
		redirectWithMessage(c, base, "Profile updated successfully", "success")
	}
}
