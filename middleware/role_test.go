package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/gin-gonic/gin"
)

func TestRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		wantRole model.Role
		wantOK   bool
	}{
		{"doctor", "doctor", model.RoleDoctor, true},
		{"upper case patient", "PATIENT", model.RolePatient, true},
		{"unknown", "admin", "", false},
		{"missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotRole model.Role
				gotOK   bool
				ctxRole string
			)
			router := gin.New()
			router.Use(Role())
			router.GET("/test", func(c *gin.Context) {
				gotRole, gotOK = GetRole(c)
				ctxRole, _ = c.Request.Context().Value(logger.RoleKey).(string)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRole, tt.header)
			}
			router.ServeHTTP(httptest.NewRecorder(), req)

			if gotOK != tt.wantOK || gotRole != tt.wantRole {
				t.Errorf("GetRole() = %q, %v; want %q, %v", gotRole, gotOK, tt.wantRole, tt.wantOK)
			}
			if ctxRole != string(tt.wantRole) {
				t.Errorf("Expected log context role %q, got %q", tt.wantRole, ctxRole)
			}
		})
	}
}

func TestGetRoleEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetRole(c); ok {
		t.Error("Expected no role on a bare context")
	}
}
