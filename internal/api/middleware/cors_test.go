package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(CORSConfig{AllowAllOrigins: true}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(CORSConfig{AllowAllOrigins: true}))

	req := httptest.NewRequest(http.MethodOptions, "/anything", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}}

	if !IsOriginAllowed("https://shop.example.com", cfg) {
		t.Error("configured origin should be allowed")
	}
	if !IsOriginAllowed("HTTPS://SHOP.EXAMPLE.COM", cfg) {
		t.Error("origin matching is case-insensitive")
	}
	if IsOriginAllowed("https://evil.example.com", cfg) {
		t.Error("unlisted origin should be rejected")
	}
	if !IsOriginAllowed("https://anywhere.example.com", CORSConfig{AllowAllOrigins: true}) {
		t.Error("allow-all config should allow any origin")
	}
}
