package middleware

import (
	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HeaderRole carries the signed-in user's role, set by the gateway in front
// of this service. Its value is trusted as is.
const HeaderRole = "X-User-Role"

const ctxRole = "role"

// Role records the caller's role (doctor or patient) when the request names
// one. Unknown values are ignored.
func Role() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := model.ParseRole(c.GetHeader(HeaderRole)); ok {
			c.Set(ctxRole, role)
			c.Request = c.Request.WithContext(logger.WithValue(c.Request.Context(), logger.RoleKey, string(role)))
		}
		c.Next()
	}
}

// GetRole returns the role recorded by Role, if any
func GetRole(c *gin.Context) (model.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(model.Role)
	return role, ok
}
