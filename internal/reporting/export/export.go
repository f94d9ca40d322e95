// Package export renders flattened financial records as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet XLSX exports are written to.
const SheetName = "Records"

const dateLayout = "2006-01-02"

var header = []string{
	"Identifier", "Type", "Branch", "Date", "Party", "Head", "Description",
	"Amount", "Currency", "Payment method", "Status", "Created by",
}

// ParseFormat maps a query value to a Format. An empty value means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type served with a file of format f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write renders rows in format f to w.
func Write(f Format, w io.Writer, rows []domain.ExportRow) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func cells(r domain.ExportRow) []string {
	return []string{
		r.Identifier, string(r.RecordType), r.BranchCode, r.Date.Format(dateLayout), r.Party, r.Head,
		r.Description, r.Amount.StringFixed(2), r.CurrencyCode, r.PaymentMethod, string(r.Status), r.CreatedBy,
	}
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(cells(r)); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single worksheet workbook with a bold header row. Amounts are numeric cells.
func WriteXLSX(w io.Writer, rows []domain.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open worksheet writer: %w", err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head, excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, 0, len(header))
		for j, v := range cells(r) {
			if j == 7 {
				values = append(values, r.Amount.InexactFloat64())
				continue
			}
			values = append(values, v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write xlsx row %s: %w", r.Identifier, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
