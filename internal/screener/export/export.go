package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang-garp-screener/internal/screener/dto"

	"github.com/jszwec/csvutil"
	"github.com/tealeg/xlsx/v2"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	stocksSheet = "Stocks"
	errorsSheet = "Errors"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json, csv or xlsx)", s)
	}
}

// FileName returns "<config>_<timestamp>.<ext>" for run.
func FileName(run *dto.ScreenerRun, format Format) string {
	name := unsafeFileChars.ReplaceAllString(run.ConfigName, "_")
	if name == "" {
		name = "screener"
	}
	return fmt.Sprintf("%s_%s.%s", name, run.CreatedAt.UTC().Format("20060102_150405"), format)
}

// Exporter writes runs to files in a directory.
type Exporter struct {
	dir string
}

// NewExporter creates an Exporter writing into dir. The directory is created on first export.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes run in format and returns the path of the written file.
func (e *Exporter) Export(run *dto.ScreenerRun, format Format) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, FileName(run, format))

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(path, run)
	case FormatCSV:
		err = writeCSV(path, run)
	case FormatXLSX:
		err = writeXLSX(path, run)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, run *dto.ScreenerRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write json export: %w", err)
	}
	return nil
}

func writeCSV(path string, run *dto.ScreenerRun) error {
	data, err := csvutil.Marshal(toRows(run))
	if err != nil {
		return fmt.Errorf("failed to marshal csv rows: %w", err)
	}
	if len(run.Stocks) == 0 {
		header, err := csvutil.Header(stockRow{}, "csv")
		if err != nil {
			return err
		}
		data = []byte(strings.Join(header, ",") + "\n")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

func writeXLSX(path string, run *dto.ScreenerRun) error {
	f := xlsx.NewFile()

	stocks, err := f.AddSheet(stocksSheet)
	if err != nil {
		return fmt.Errorf("failed to add stocks sheet: %w", err)
	}
	header, err := csvutil.Header(stockRow{}, "csv")
	if err != nil {
		return err
	}
	addStringRow(stocks, header...)
	for _, r := range toRows(run) {
		row := stocks.AddRow()
		for _, v := range r.values() {
			setCell(row.AddCell(), v)
		}
	}

	errs, err := f.AddSheet(errorsSheet)
	if err != nil {
		return fmt.Errorf("failed to add errors sheet: %w", err)
	}
	addStringRow(errs, "error")
	for _, e := range run.Errors {
		addStringRow(errs, e)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to write xlsx export: %w", err)
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func setCell(cell *xlsx.Cell, v interface{}) {
	switch val := v.(type) {
	case string:
		cell.SetString(val)
	case int:
		cell.SetInt(val)
	case float64:
		cell.SetFloat(val)
	case *float64:
		if val != nil {
			cell.SetFloat(*val)
		}
	}
}
