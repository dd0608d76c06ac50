package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-cart-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtManager *auth.JWTManager) *gin.Engine {
	m := NewAuthMiddleware(jwtManager)
	r := gin.New()
	r.GET("/me", m.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	r.GET("/admin", m.AuthRequired(), m.RoleRequired("admin", "support"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/no-auth-admin", m.RoleRequired("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", 1, 1)
	r := newAuthRouter(jwtManager)

	token, err := jwtManager.GenerateToken("user-1", "customer")
	require.NoError(t, err)

	w := get(r, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","role":"customer"}`, w.Body.String())

	for _, header := range []string{"", token, "Basic " + token, "Bearer a b"} {
		w = get(r, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}

	other, err := auth.NewJWTManager("other", 1, 1).GenerateToken("user-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+other).Code)
}

func TestRoleRequired(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", 1, 1)
	r := newAuthRouter(jwtManager)

	for role, want := range map[string]int{
		"admin":    http.StatusNoContent,
		"support":  http.StatusNoContent,
		"customer": http.StatusForbidden,
	} {
		token, err := jwtManager.GenerateToken("user-1", role)
		require.NoError(t, err)
		assert.Equal(t, want, get(r, "/admin", "Bearer "+token).Code, role)
	}

	assert.Equal(t, http.StatusForbidden, get(r, "/no-auth-admin", "").Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := get(r, "/", "")
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware(), RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := get(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func corsPreflight(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	newRouter := func(origins []string) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("wildcard", func(t *testing.T) {
		w := corsPreflight(newRouter([]string{"*"}), "https://shop.example.com")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origins", func(t *testing.T) {
		r := newRouter([]string{"https://shop.example.com"})

		w := corsPreflight(r, "https://shop.example.com")
		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

		w = corsPreflight(r, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
