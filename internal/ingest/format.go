package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/stockroom/internal/domain"
)

// Format is a supported import/export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ParseFormat accepts "csv" or "xlsx" in any case. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// DetectFormat guesses the format from a file name, then a MIME type,
// defaulting to CSV.
func DetectFormat(filename, contentType string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}
	if strings.HasPrefix(strings.ToLower(contentType), MimeXLSX) {
		return FormatXLSX
	}
	return FormatCSV
}

// ContentType returns the MIME type used when serving an export.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return MimeXLSX
	}
	return MimeCSV
}

// FileName returns the download name for an export in this format.
func (f Format) FileName() string {
	return strings.TrimSuffix(ExportFileName, ".csv") + "." + string(f)
}

// Read parses an import file in the given format.
func Read(format Format, r io.Reader) (Batch, error) {
	if format == FormatXLSX {
		return ReadXLSX(r)
	}
	return ReadCSV(r)
}

// Write renders an export in the given format.
func Write(format Format, w io.Writer, products []domain.Product) error {
	if format == FormatXLSX {
		return WriteXLSX(w, products)
	}
	return WriteCSV(w, products)
}
