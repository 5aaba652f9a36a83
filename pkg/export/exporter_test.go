package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:    "Reporte de Asistencia - CEI Mundo de los niños",
		Subtitle: "Fecha: 2026-09-01",
		Tables: []Table{
			{
				Title:      "Alumnos",
				HeaderFill: RGB{R: 76, G: 175, B: 80},
				Headers:    []string{"Nombre", "Hora de Entrada", "Hora de Salida"},
				Rows: [][]string{
					{"Ana García", "08:05:00 AM", "01:00:00 PM"},
				},
			},
			{
				Title:      "Maestras",
				HeaderFill: RGB{R: 33, G: 150, B: 243},
				Headers:    []string{"Nombre", "Hora de Entrada", "Hora de Salida"},
				Rows: [][]string{
					{"María López", "07:30:00 AM", "---"},
				},
			},
		},
	}
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestPDFExporterRejectsEmptyDocument(t *testing.T) {
	_, err := NewPDFExporter().Render(Document{})
	require.Error(t, err)
}

func TestPDFExporterRejectsRaggedRows(t *testing.T) {
	doc := sampleDocument()
	doc.Tables[0].Rows = [][]string{{"Ana García"}}
	_, err := NewPDFExporter().Render(doc)
	require.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Alumnos")
	assert.Contains(t, out, "Maestras")
	assert.Contains(t, out, "Nombre,Hora de Entrada,Hora de Salida")
	assert.Contains(t, out, "Ana García,08:05:00 AM,01:00:00 PM")
	assert.Contains(t, out, "María López,07:30:00 AM,---")
}

func TestCSVExporterSeparatesSections(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var blanks int
	for _, line := range lines {
		if strings.Trim(line, "\"") == "" {
			blanks++
		}
	}
	assert.Equal(t, 1, blanks)
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	doc := sampleDocument()
	doc.Tables[1].Rows = [][]string{{"María López", "07:30:00 AM"}}
	_, err := NewCSVExporter().Render(doc)
	require.Error(t, err)
}
