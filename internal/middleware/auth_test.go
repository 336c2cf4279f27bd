package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()

	store := session.NewMemoryStore()
	t.Cleanup(store.Close)
	mgr := session.NewManager(store, time.Minute)

	router := gin.New()
	router.Use(Sessions(mgr))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) }
	router.GET("/", ok)
	router.GET("/profile", RequireShopper(), ok)
	router.GET("/admin", RequireAdmin(), ok)
	return router, mgr
}

func loginAs(t *testing.T, mgr *session.Manager, role models.Role) *http.Cookie {
	t.Helper()

	sess, err := mgr.Start(context.Background())
	require.NoError(t, err)
	sess.Login("user-1", role)
	require.NoError(t, mgr.Save(context.Background(), sess))
	return &http.Cookie{Name: session.CookieName, Value: sess.Token}
}

func doRequest(router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousVisitorGetsSessionCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName {
			found = true
			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, found, "expected a session cookie on the first response")
}

func TestCookieLifetimeSlidesOnEveryRequest(t *testing.T) {
	router, mgr := newTestRouter(t)
	cookie := loginAs(t, mgr, models.RoleShopper)

	// each request must re-issue the cookie with the full window, otherwise
	// the browser drops it TTL seconds after first issuance no matter how
	// active the user is
	for i := 0; i < 3; i++ {
		rec := doRequest(router, "/profile", cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var reissued *http.Cookie
		for _, got := range rec.Result().Cookies() {
			if got.Name == session.CookieName {
				reissued = got
			}
		}
		require.NotNil(t, reissued, "request %d: expected the cookie to be re-issued", i)
		assert.Equal(t, cookie.Value, reissued.Value)
		assert.Equal(t, int(mgr.TTL().Seconds()), reissued.MaxAge)
	}
}

func TestAnonymousRedirectedFromGatedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/profile", "/admin"} {
		rec := doRequest(router, path, nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/user/login")
	}
}

func TestShopperPassesShopperGateOnly(t *testing.T) {
	router, mgr := newTestRouter(t)
	cookie := loginAs(t, mgr, models.RoleShopper)

	rec := doRequest(router, "/profile", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "/admin", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/user/login")
}

func TestAdminPassesBothGates(t *testing.T) {
	router, mgr := newTestRouter(t)
	cookie := loginAs(t, mgr, models.RoleAdmin)

	rec := doRequest(router, "/admin", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "/profile", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredTokenFallsBackToAnonymous(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(store.Close)
	mgr := session.NewManager(store, 20*time.Millisecond)

	router := gin.New()
	router.Use(Sessions(mgr))
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cookie := loginAs(t, mgr, models.RoleAdmin)
	time.Sleep(50 * time.Millisecond)

	rec := doRequest(router, "/admin", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
}
