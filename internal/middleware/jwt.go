package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/service"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

// ContextDeviceKey is the gin context key storing device session claims.
const ContextDeviceKey = "currentDevice"

// DeviceSession protects routes by requiring a valid device session token.
func DeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextDeviceKey, claims)
		c.Next()
	}
}
