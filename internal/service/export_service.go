package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/export"
)

// Report document labels. The exported files are read by the center's staff,
// so the text stays in Spanish like the kiosk UI.
const (
	reportTitle       = "Reporte de Asistencia - CEI Mundo de los niños"
	studentTableTitle = "Alumnos"
	teacherTableTitle = "Maestras"
	columnName        = "Nombre"
	columnEntry       = "Hora de Entrada"
	columnExit        = "Hora de Salida"
)

// Section header fills, matching the on-screen report tables.
var (
	studentHeaderFill = export.RGB{R: 76, G: 175, B: 80}
	teacherHeaderFill = export.RGB{R: 33, G: 150, B: 243}
)

// DocumentRenderer turns a report document into file bytes.
type DocumentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// FileStore persists rendered export files.
type FileStore interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders daily reports into downloadable files.
type ExportService struct {
	reports   *ReportService
	renderers map[models.ExportFormat]DocumentRenderer
	store     FileStore
	logger    *zap.Logger
}

// NewExportService constructs the export service with one renderer per format.
func NewExportService(reports *ReportService, pdf, csv DocumentRenderer, store FileStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		renderers: map[models.ExportFormat]DocumentRenderer{
			models.ExportFormatPDF: pdf,
			models.ExportFormatCSV: csv,
		},
		store:  store,
		logger: logger,
	}
}

// Generate builds, renders and stores the report file for the given date,
// returning the stored file's relative path.
func (s *ExportService) Generate(ctx context.Context, date string, format models.ExportFormat) (string, error) {
	renderer, ok := s.renderers[format]
	if !ok || renderer == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	report, err := s.reports.DailyReport(ctx, date)
	if err != nil {
		return "", err
	}

	data, err := renderer.Render(BuildDocument(report))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := ExportFilename(date, format)
	relPath, err := s.store.Save(filename, data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report file")
	}

	s.logger.Info("report exported",
		zap.String("date", date),
		zap.String("format", string(format)),
		zap.String("file", relPath))
	return relPath, nil
}

// ExportFilename names the downloadable file for a date and format.
func ExportFilename(date string, format models.ExportFormat) string {
	return fmt.Sprintf("Reporte_Asistencia_%s.%s", date, format)
}

// BuildDocument lays out a daily report as the two-section document rendered
// by the exporters. Both sections are always present, even when empty.
func BuildDocument(report *models.DailyReport) export.Document {
	return export.Document{
		Title:    reportTitle,
		Subtitle: fmt.Sprintf("Fecha: %s", report.Date),
		Tables: []export.Table{
			{
				Title:      studentTableTitle,
				HeaderFill: studentHeaderFill,
				Headers:    []string{columnName, columnEntry, columnExit},
				Rows:       attendanceRows(report.Students),
			},
			{
				Title:      teacherTableTitle,
				HeaderFill: teacherHeaderFill,
				Headers:    []string{columnName, columnEntry, columnExit},
				Rows:       attendanceRows(report.Teachers),
			},
		},
	}
}

func attendanceRows(rows []models.DailyAttendance) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{row.Name, row.EntryTime, row.ExitTime})
	}
	return out
}
