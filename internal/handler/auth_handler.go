package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/service"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Anonymous godoc
// @Summary Open anonymous device session
// @Description Issue a short-lived token identifying a kiosk device
// @Tags Authentication
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/anonymous [post]
func (h *AuthHandler) Anonymous(c *gin.Context) {
	session, err := h.service.IssueAnonymous()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}
