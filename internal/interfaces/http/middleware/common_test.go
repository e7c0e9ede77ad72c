package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.POST("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORSWithConfig(t *testing.T) {
	merchantPortal := "http://merchant.talabia.local"

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{merchantPortal},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type", "X-Tenant-ID", "Idempotency-Key"},
			AllowCredentials: true,
		})

		req := httptest.NewRequest("POST", "/orders", nil)
		req.Header.Set("Origin", merchantPortal)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, merchantPortal, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{merchantPortal},
		})

		req := httptest.NewRequest("POST", "/orders", nil)
		req.Header.Set("Origin", "http://not-allowed.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty whitelist rejects all cross-origin requests", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{},
			AllowMethods: []string{"POST"},
		})

		req := httptest.NewRequest("POST", "/orders", nil)
		req.Header.Set("Origin", "http://any-origin.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard never grants credentials", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"POST"},
			AllowCredentials: true,
		})

		req := httptest.NewRequest("POST", "/orders", nil)
		req.Header.Set("Origin", "http://any-origin.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight answers 204 with methods and headers", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{merchantPortal},
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Content-Type", "X-Tenant-ID", "Idempotency-Key"},
			MaxAge:       12 * time.Hour,
		})

		req := httptest.NewRequest("OPTIONS", "/orders", nil)
		req.Header.Set("Origin", merchantPortal)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, merchantPortal, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Tenant-ID, Idempotency-Key", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unknown origin still returns 204 without headers", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{merchantPortal},
			AllowMethods: []string{"POST"},
		})

		req := httptest.NewRequest("OPTIONS", "/orders", nil)
		req.Header.Set("Origin", "http://not-allowed.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins, "origins must be explicitly configured")
	assert.Contains(t, cfg.AllowHeaders, "X-Tenant-ID")
	assert.Contains(t, cfg.ExposeHeaders, "X-Request-ID")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates request ID when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	})

	t.Run("propagates caller-supplied request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set("X-Request-ID", "req-settlement-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-settlement-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-settlement-42", w.Body.String())
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 32) // 16 bytes hex encoded
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	// HSTS stays off until HTTPS is configured
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithConfigHSTS(t *testing.T) {
	cfg := SecurityConfig{
		HSTSEnabled:           true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
	}

	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(30 * time.Second))
	router.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "30s", w.Header().Get("X-Request-Timeout"))
}
