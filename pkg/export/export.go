package export

// Dataset is the tabular content handed to every renderer. Rows are ordered
// the same way as Headers.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Format identifies a supported export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// IsValidFormat reports whether the format is one of the supported encodings.
func IsValidFormat(f Format) bool {
	switch f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return true
	}
	return false
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// Renderer turns a dataset into encoded bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}
