package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/session"
)

const sessionKey = "session"

// Sessions resolves the session cookie on every request, sliding the expiry
// window, and starts a fresh anonymous session when there is none. The
// session is always present in the context downstream.
func Sessions(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, _ := c.Cookie(session.CookieName)
		sess, err := mgr.Resolve(ctx, token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Println("[SESSION] [ERROR] resolve failed:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			sess, err = mgr.Start(ctx)
			if err != nil {
				log.Println("[SESSION] [ERROR] start failed:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
		}

		// re-issue on every request so the cookie lifetime slides together
		// with the server-side expiry window
		c.SetCookie(session.CookieName, sess.Token, int(mgr.TTL().Seconds()), "/", "", false, true)

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session placed in the context by Sessions.
func CurrentSession(c *gin.Context) *session.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return &session.Session{}
	}
	sess, ok := value.(*session.Session)
	if !ok {
		return &session.Session{}
	}
	return sess
}

// RequireShopper gates routes that act on a shopper's own profile or cart.
// Any logged-in principal passes, administrators included.
func RequireShopper() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if !sess.LoggedIn() {
			c.Redirect(http.StatusFound, "/user/login?message=Please+login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates every catalog mutation and administrator-only view.
// Unauthenticated or wrong-role access is denied with a redirect, never an
// error page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if !sess.LoggedIn() || sess.Role != models.RoleAdmin {
			log.Println("[SESSION] [INFO] admin route denied for role:", string(sess.Role))
			c.Redirect(http.StatusFound, "/user/login?message=Please+login")
			c.Abort()
			return
		}
		c.Next()
	}
}
