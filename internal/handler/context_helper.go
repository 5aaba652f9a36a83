package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/middleware"
	"github.com/ceimundo/asistencia-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.DeviceClaims {
	value, exists := c.Get(middleware.ContextDeviceKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.DeviceClaims)
	if !ok {
		return nil
	}
	return claims
}

func deviceIDFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.DeviceID
}
