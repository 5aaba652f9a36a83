package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders report documents as stacked tables in a portrait A4 PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the document title, subtitle and one grid table
// per section, each positioned below the previous one.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("pdf requires at least one table")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 16, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(doc.Title), "", 1, "L", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(doc.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	for _, table := range doc.Tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("table %q requires headers", table.Title)
		}
		if err := e.renderTable(pdf, tr, table); err != nil {
			return nil, err
		}
		pdf.Ln(6)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderTable(pdf *gofpdf.Fpdf, tr func(string) string, table Table) error {
	if table.Title != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(table.Title), "", 1, "L", false, 0, "")
	}

	colWidth := 182.0 / float64(len(table.Headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(table.HeaderFill.R, table.HeaderFill.G, table.HeaderFill.B)
	pdf.SetTextColor(255, 255, 255)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return fmt.Errorf("table %q row has %d cells, expected %d", table.Title, len(row), len(table.Headers))
		}
		for _, cell := range row {
			pdf.CellFormat(colWidth, 7, tr(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return nil
}
