// Package importer reads contact spreadsheets (XLSX or CSV) and maps their
// columns onto enrichment parameters.
package importer

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format is a supported upload format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a format from a file name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", eris.Errorf("importer: unsupported file type %q (only .xlsx and .csv)", filepath.Ext(name))
	}
}

// ReadRows reads every row of the first sheet (XLSX) or the whole file (CSV).
func ReadRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatXLSX:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "importer: read upload")
		}
		return ReadXLSX(data)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, eris.Errorf("importer: unknown format %q", format)
	}
}

// ReadXLSX returns the rows of the first sheet.
func ReadXLSX(data []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ReadCSV reads a CSV file, honoring UTF-8 and UTF-16 byte order marks.
func ReadCSV(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	return rows, nil
}

// ReadFile is ReadRows over an in-memory upload named name.
func ReadFile(name string, data []byte) ([][]string, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return ReadRows(bytes.NewReader(data), format)
}
