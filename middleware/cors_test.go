package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	called := false
	router := gin.New()
	router.Use(CORS())
	router.OPTIONS("/api/forms", func(c *gin.Context) { called = true })
	router.POST("/api/forms", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/forms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if called {
		t.Error("Expected preflight to stop before the handler")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected allow-origin header")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Expected no-store, got '%s'", w.Header().Get("Cache-Control"))
	}
}
