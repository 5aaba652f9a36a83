package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ceimundo/asistencia-api/internal/models"
	"github.com/ceimundo/asistencia-api/internal/service"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/response"
)

// ReportHandler exposes daily reports and their exports.
type ReportHandler struct {
	reports  *service.ReportService
	jobs     *service.ReportJobService
	location *time.Location
}

// NewReportHandler creates a new handler. The location supplies the default
// report date when the query omits one.
func NewReportHandler(reports *service.ReportService, jobs *service.ReportJobService, location *time.Location) *ReportHandler {
	if location == nil {
		location = time.Local
	}
	return &ReportHandler{reports: reports, jobs: jobs, location: location}
}

// Daily godoc
// @Summary Daily attendance report
// @Description Per-person first entry and last exit for a calendar date, split into student and teacher sections
// @Tags Reports
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = service.CalendarDate(time.Now(), h.location)
	}

	report, err := h.reports.DailyReport(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// CreateExport godoc
// @Summary Queue a report export
// @Description Render the daily report to a downloadable file in the background
// @Tags Reports
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param format query string false "Export format (pdf or csv), defaults to pdf"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/export [get]
func (h *ReportHandler) CreateExport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = service.CalendarDate(time.Now(), h.location)
	}
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportFormatPDF)))

	job, err := h.jobs.CreateJob(c.Request.Context(), date, format, deviceIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// ExportStatus godoc
// @Summary Export job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/export/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	job, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Download godoc
// @Summary Download an exported report
// @Description Serve an export file referenced by a signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "download token required"))
		return
	}

	path, filename, err := h.jobs.ResolveDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filename)
}
