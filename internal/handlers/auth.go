package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/session"
)

type SignupRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginPage and SignupPage pass the redirect message through; the pages
// themselves are rendered client-side.
func LoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": c.Query("message")})
	}
}

func SignupPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": c.Query("message")})
	}
}

// Signup creates a shopper account with a bcrypt hash and initial status
// Active. The configured administrator email is provisioned with the admin
// role here, once, instead of being matched on every login.
func Signup(store catalog.UserStore, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBind(&req); err != nil {
			log.Println("[AUTH] [ERROR] signup validation failed:", err)
			redirectWithMessage(c, "/user/signup", "Name, a valid email and a password of at least 6 characters are required", "error")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := store.FindUserByEmail(ctx, email); err == nil {
			log.Println("[AUTH] [ERROR] signup email exists:", email)
			redirectWithMessage(c, "/user/signup", "Email already registered", "error")
			return
		} else if !errors.Is(err, catalog.ErrNotFound) {
			log.Println("[AUTH] [ERROR] signup lookup failed:", err)
			redirectWithMessage(c, "/user/signup", "Server error", "error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup password hash failed:", err)
			redirectWithMessage(c, "/user/signup", "Server error", "error")
			return
		}

		role := models.RoleShopper
		if email == adminEmail {
			role = models.RoleAdmin
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			Status:       models.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := store.InsertUser(ctx, user); err != nil {
			if errors.Is(err, catalog.ErrConflict) {
				redirectWithMessage(c, "/user/signup", "Email already registered", "error")
				return
			}
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			redirectWithMessage(c, "/user/signup", "Server error", "error")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		redirectWithMessage(c, "/user/login", "Account created successfully", "success")
	}
}

// Authenticate verifies the credentials against the stored record. The three
// failure modes stay distinct here: no account (ErrNotFound), blocked account
// (ErrBlocked), wrong password (ErrIncorrectCredential). What the caller
// chooses to reveal is its own decision.
func Authenticate(ctx context.Context, store catalog.UserStore, email, password string) (models.User, error) {
	user, err := store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, err
	}

	if user.Status == models.StatusBlocked {
		return models.User{}, catalog.ErrBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, catalog.ErrIncorrectCredential
	}

	return user, nil
}

// Login authenticates and binds the session to the user. Blocked accounts get
// a distinct message; a missing account and a wrong password share a generic
// one so login does not reveal whether an account exists.
func Login(store catalog.UserStore, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			redirectWithMessage(c, "/user/login", "Email and password are required", "error")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := Authenticate(ctx, store, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrBlocked):
				log.Println("[AUTH] [ERROR] login blocked account:", req.Email)
				redirectWithMessage(c, "/user/login", "Account blocked", "error")
			case errors.Is(err, catalog.ErrNotFound):
				log.Println("[AUTH] [ERROR] login no such account")
				redirectWithMessage(c, "/user/login", "Invalid email or password", "error")
			case errors.Is(err, catalog.ErrIncorrectCredential):
				log.Println("[AUTH] [ERROR] login incorrect password")
				redirectWithMessage(c, "/user/login", "Invalid email or password", "error")
			default:
				log.Println("[AUTH] [ERROR] login lookup failed:", err)
				redirectWithMessage(c, "/user/login", "Server error", "error")
			}
			return
		}

		// rotate the token on privilege change so a fixated pre-login token
		// never identifies the authenticated principal
		old := middleware.CurrentSession(c)
		if err := mgr.Destroy(ctx, old.Token); err != nil {
			log.Println("[AUTH] [ERROR] login session rotate failed:", err)
		}
		sess, err := mgr.Start(ctx)
		if err != nil {
			log.Println("[AUTH] [ERROR] login session start failed:", err)
			redirectWithMessage(c, "/user/login", "Server error", "error")
			return
		}
		sess.Cart = old.Cart
		sess.Login(user.ID.Hex(), user.Role)
		if err := mgr.Save(ctx, sess); err != nil {
			log.Println("[AUTH] [ERROR] login session save failed:", err)
			redirectWithMessage(c, "/user/login", "Server error", "error")
			return
		}
		c.SetCookie(session.CookieName, sess.Token, int(mgr.TTL().Seconds()), "/", "", false, true)

		log.Println("[AUTH] [INFO] login succeeded:", user.Email, "role:", string(user.Role))
		if user.Role == models.RoleAdmin {
			c.Redirect(http.StatusFound, "/admin")
			return
		}
		c.Redirect(http.StatusFound, "/user")
	}
}

// Logout destroys the session and clears the cookie.
func Logout(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		if err := mgr.Destroy(c.Request.Context(), sess.Token); err != nil {
			log.Println("[AUTH] [ERROR] logout destroy failed:", err)
		}
		c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
		c.Redirect(http.StatusFound, "/user")
	}
}
