// package formatter renders funeral service records as CSV, Markdown, plain text, JSON and XLSX
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
	"github.com/ttacon/libphonenumber"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatXLSX     Format = "xlsx"
	FormatJSON     Format = "json"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatXLSX, FormatJSON}

const sheetName = "Services"

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "xlsx":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (use csv, markdown, txt, xlsx or json)", shared.ErrInvalidFlag, name)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Options control rendering details that do not change the record data.
type Options struct {
	// PhoneRegion is the ISO 3166-1 region used to format phone numbers in Markdown and text output.
	// Empty keeps numbers as entered.
	PhoneRegion string
}

// Render produces records in the given format.
func Render(format Format, records []models.ServiceRecord, opts Options) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(records, opts)
	case FormatText:
		return ExportToText(records, opts)
	case FormatXLSX:
		return ExportToXLSX(records)
	case FormatJSON:
		return ExportToJSON(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Headers returns the column headers shared by the CSV and XLSX exports.
func Headers() []string {
	headers := make([]string, 0, len(models.RecordFields)+1)
	headers = append(headers, "Order number")
	for _, f := range models.RecordFields {
		headers = append(headers, f.Label)
	}
	return headers
}

func row(r *models.ServiceRecord) []string {
	values := make([]string, 0, len(models.RecordFields)+1)
	values = append(values, strconv.Itoa(r.OrderNumber))
	for _, f := range models.RecordFields {
		values = append(values, f.Get(r))
	}
	return values
}

// ExportToCSV writes one header row and one row per record, in record order.
func ExportToCSV(records []models.ServiceRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Headers()); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range records {
		if err := writer.Write(row(&records[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a document with one field table per record. Empty fields are omitted.
func ExportToMarkdown(records []models.ServiceRecord, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Funeral services\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n", len(records)))

	for i := range records {
		r := &records[i]
		buf.WriteString(fmt.Sprintf("\n## Order %d\n\n", r.OrderNumber))
		buf.WriteString("| Field | Value |\n")
		buf.WriteString("| --- | --- |\n")
		for _, f := range models.RecordFields {
			value := displayValue(f, r, opts)
			if value == "" {
				continue
			}
			buf.WriteString(fmt.Sprintf("| %s | %s |\n", f.Label, escapeCell(value)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders records as indented "Label: value" sheets. Empty fields are omitted.
func ExportToText(records []models.ServiceRecord, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	for i := range records {
		r := &records[i]
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("Order %d\n", r.OrderNumber))
		for _, f := range models.RecordFields {
			value := displayValue(f, r, opts)
			if value == "" {
				continue
			}
			buf.WriteString(fmt.Sprintf("  %s: %s\n", f.Label, value))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders records as an indented JSON array.
func ExportToJSON(records []models.ServiceRecord) ([]byte, error) {
	if records == nil {
		records = []models.ServiceRecord{}
	}
	return shared.MarshalJSON(records, true)
}

// ExportToXLSX renders records into a single "Services" sheet.
// Order numbers, musician counts and amounts are numeric cells.
func ExportToXLSX(records []models.ServiceRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range Headers() {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}

	for i := range records {
		r := &records[i]
		rowNo := i + 2
		for col, value := range xlsxRow(r) {
			if err := setCell(f, col+1, rowNo, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxRow(r *models.ServiceRecord) []any {
	values := make([]any, 0, len(models.RecordFields)+1)
	values = append(values, r.OrderNumber)
	for _, f := range models.RecordFields {
		switch f.Key {
		case "musicians-count":
			values = append(values, r.ServiceMusiciansCount)
		case "discount-percentage":
			values = append(values, r.ServiceDiscountPercentage.InexactFloat64())
		case "payment-amount":
			values = append(values, r.ServicePaymentAmount.InexactFloat64())
		default:
			values = append(values, f.Get(r))
		}
	}
	return values
}

func setCell(f *excelize.File, col, rowNo int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, rowNo)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func displayValue(f models.Field, r *models.ServiceRecord, opts Options) string {
	value := f.Get(r)
	if f.Key == models.PhoneNumbersKey {
		return FormatPhoneNumbers(value, opts.PhoneRegion)
	}
	return value
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// FormatPhoneNumbers formats a comma or semicolon separated list of phone numbers in international
// notation for region. Entries that do not parse as valid numbers are kept as typed.
// An empty region returns raw unchanged.
func FormatPhoneNumbers(raw, region string) string {
	if region == "" || strings.TrimSpace(raw) == "" {
		return raw
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		num, err := libphonenumber.Parse(part, strings.ToUpper(region))
		if err != nil || !libphonenumber.IsValidNumber(num) {
			formatted = append(formatted, part)
			continue
		}
		formatted = append(formatted, libphonenumber.Format(num, libphonenumber.INTERNATIONAL))
	}
	return strings.Join(formatted, ", ")
}

// FileName returns the export file name for base and format, e.g. "services.csv".
func FileName(base string, format Format) string {
	if base == "" {
		base = "services"
	}
	return base + "." + format.Extension()
}

// WriteExport renders records and writes them to dir/FileName(base, format), creating dir when needed.
// It returns the written path.
func WriteExport(dir, base string, format Format, records []models.ServiceRecord, opts Options) (string, error) {
	data, err := Render(format, records, opts)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, FileName(base, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
