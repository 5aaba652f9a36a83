package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceimundo/asistencia-api/internal/service"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

func TestAuthHandlerAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(nil, service.AuthConfig{Secret: "test-secret", Expiration: time.Hour})
	handler := NewAuthHandler(authSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/anonymous", nil)
	c.Request = req

	handler.Anonymous(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["device_id"])
}

func TestAuthHandlerAnonymousWithoutSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(service.NewAuthService(nil, service.AuthConfig{}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/anonymous", nil)
	c.Request = req

	handler.Anonymous(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
