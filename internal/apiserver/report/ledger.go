// Package report renders payroll ledgers as spreadsheets.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary    = "Summary"
	SheetAttendance = "Attendance"
	SheetPayments   = "Payments"
)

// Ledger is the printable form of one employee's monthly ledger.
type Ledger struct {
	EmployeeID   string
	Name         string
	Month        string
	DailyRate    decimal.Decimal
	PresentCount int
	HalfDayCount int
	AbsentCount  int
	EarnedSalary decimal.Decimal
	AdvanceScope string
	TotalAdvance decimal.Decimal
	NetPayable   decimal.Decimal
	Attendance   []Day
	Payments     []Payment
}

type Day struct {
	Date   string
	Status string
}

type Payment struct {
	Date   string
	Type   string
	Amount decimal.Decimal
}

// RenderLedger writes the ledger as an XLSX workbook with a summary, an
// attendance and a payments sheet.
func RenderLedger(l *Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	summary := [][]any{
		{"Employee ID", l.EmployeeID},
		{"Name", l.Name},
		{"Month", l.Month},
		{"Daily Rate", money(l.DailyRate)},
		{"Present Days", l.PresentCount},
		{"Half Days", l.HalfDayCount},
		{"Absent Days", l.AbsentCount},
		{"Earned Salary", money(l.EarnedSalary)},
		{"Advance Scope", l.AdvanceScope},
		{"Total Advance", money(l.TotalAdvance)},
		{"Net Payable", money(l.NetPayable)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 18)
	_ = f.SetColWidth(SheetSummary, "B", "B", 24)

	days := [][]any{{"Date", "Status"}}
	for _, d := range l.Attendance {
		days = append(days, []any{d.Date, d.Status})
	}
	if err := addSheet(f, SheetAttendance, days, bold); err != nil {
		return nil, err
	}

	payments := [][]any{{"Date", "Type", "Amount"}}
	for _, p := range l.Payments {
		payments = append(payments, []any{p.Date, p.Type, money(p.Amount)})
	}
	if err := addSheet(f, SheetPayments, payments, bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := writeRows(f, name, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	_ = f.SetColWidth(name, "A", "C", 14)
	return f.SetCellStyle(name, "A1", last, headerStyle)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// money keeps two decimals and hands the cell a number, not text.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
