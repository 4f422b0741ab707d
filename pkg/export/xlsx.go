package export

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteXLSX.
const (
	SummarySheet  = "Summary"
	ScheduleSheet = "Amortization Schedule"
)

var scheduleHeader = []any{
	"Month", "Date", "Installment", "Principal", "Interest", "Rate (%)", "Lump Sum", "Balance", "Total Payment",
}

// WriteXLSX writes a workbook with a Summary sheet holding the loan
// parameters and an Amortization Schedule sheet with one row per period.
func WriteXLSX(w io.Writer, rows []loans.PeriodRow, params Params) (err error) {
	if len(rows) == 0 {
		return report.ErrEmptySchedule
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return fmt.Errorf("create schedule sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	summary := [][]any{
		{"Item", "Value"},
		{"Loan Amount", params.Principal},
		{"Interest Rate", params.rateLabel()},
		{"Duration", params.durationLabel()},
		{"Start Date", datetime.Format(params.StartDate)},
		{"Currency", params.Currency},
	}
	for i, values := range summary {
		if err := setRow(f, SummarySheet, i+1, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B2", "B2", money); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 18); err != nil {
		return err
	}

	if err := setRow(f, ScheduleSheet, 1, scheduleHeader); err != nil {
		return err
	}
	for i, row := range rows {
		values := []any{
			row.Month, datetime.Format(row.Date), row.Installment, row.Principal, row.Interest,
			row.AnnualRate, row.LumpSum, row.Balance, row.TotalPayment(),
		}
		if err := setRow(f, ScheduleSheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(ScheduleSheet, "A1", "I1", bold); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(scheduleHeader), len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ScheduleSheet, "C2", last, money); err != nil {
		return err
	}
	if err := f.SetColWidth(ScheduleSheet, "A", "I", 15); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
