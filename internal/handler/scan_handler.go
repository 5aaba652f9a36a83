package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/service"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

// ScanHandler receives decoded QR reads from the kiosk.
type ScanHandler struct {
	scans *service.ScanService
}

// NewScanHandler creates a new handler.
func NewScanHandler(scans *service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// Scan godoc
// @Summary Record an attendance scan
// @Description Resolve a scanned code to a registered person and append an entry or exit event
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body service.ScanRequest true "Scan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /scans [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}
	req.DeviceID = deviceIDFromContext(c)

	confirmation, err := h.scans.HandleScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, confirmation)
}
