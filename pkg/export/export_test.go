package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Courses",
		Headers: []string{"Course", "Department", "Teacher"},
		Rows: [][]string{
			{"Analyse 1", "Mathematiques", "a.benali@school.test"},
			{"Algorithmique", "Informatique", ""},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course,Department,Teacher", lines[0])
	assert.Contains(t, lines[1], "Analyse 1")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat(FormatCSV))
	assert.True(t, IsValidFormat(FormatPDF))
	assert.True(t, IsValidFormat(FormatXLSX))
	assert.False(t, IsValidFormat(Format("docx")))
}
