package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/models"
	"github.com/ceimundo/asistencia-api/internal/service"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

// ScannerHandler exposes the scan session lifecycle.
type ScannerHandler struct {
	scanner *service.ScannerService
}

// NewScannerHandler creates a new handler.
func NewScannerHandler(scanner *service.ScannerService) *ScannerHandler {
	return &ScannerHandler{scanner: scanner}
}

type startSessionRequest struct {
	Kind models.EventKind `json:"kind" binding:"required"`
}

// StartSession godoc
// @Summary Start a scan session
// @Description Activate the device's exclusive scan session for one entry or exit intent
// @Tags Scanner
// @Accept json
// @Produce json
// @Param payload body startSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scanner/sessions [post]
func (h *ScannerHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.scanner.Start(deviceIDFromContext(c), req.Kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// StopSession godoc
// @Summary Stop a scan session
// @Description Deactivate the device's scan session; safe to call when none is active
// @Tags Scanner
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Router /scanner/sessions/{id} [delete]
func (h *ScannerHandler) StopSession(c *gin.Context) {
	h.scanner.Stop(deviceIDFromContext(c), c.Param("id"))
	response.NoContent(c)
}
