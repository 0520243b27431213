package billing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var invoiceHeaders = []string{"Number", "Job", "Facility", "Status", "Issued", "Due", "Paid", "Amount"}

var payableHeaders = []string{"Payable", "Job", "Interpreter", "Status", "Created", "Paid", "Amount"}

// InvoiceRegister renders invoices as an xlsx workbook, one row each, with a
// trailing total row.
func InvoiceRegister(items []Invoice) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	var total float64
	for _, inv := range items {
		paid := ""
		if inv.PaidAt != nil {
			paid = inv.PaidAt.Format("2006-01-02")
		}
		rows = append(rows, []any{
			inv.Number, inv.JobID, inv.FacilityID, inv.Status,
			inv.IssuedAt.Format("2006-01-02"), inv.DueDate.Format("2006-01-02"), paid, inv.Amount,
		})
		total += inv.Amount
	}
	return register(invoiceSheet, invoiceHeaders, rows, total)
}

func PayableRegister(items []Payable) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	var total float64
	for _, p := range items {
		paid := ""
		if p.PaidAt != nil {
			paid = p.PaidAt.Format("2006-01-02")
		}
		rows = append(rows, []any{
			p.ID, p.JobID, p.InterpreterID, p.Status,
			p.CreatedAt.Format("2006-01-02"), paid, p.Amount,
		})
		total += p.Amount
	}
	return register(payableSheet, payableHeaders, rows, total)
}

func register(sheet string, headers []string, rows [][]any, total float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range headers {
		if err := setCell(f, sheet, i+1, 1, header); err != nil {
			return nil, err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for r, values := range rows {
		for c, value := range values {
			if err := setCell(f, sheet, c+1, r+2, value); err != nil {
				return nil, err
			}
		}
	}

	// The total sits under the amount column, labelled in the column before it.
	amountCol, totalRow := len(headers), len(rows)+2
	if err := setCell(f, sheet, amountCol-1, totalRow, "Total"); err != nil {
		return nil, fmt.Errorf("total row: %w", err)
	}
	if err := setCell(f, sheet, amountCol, totalRow, total); err != nil {
		return nil, fmt.Errorf("total row: %w", err)
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
