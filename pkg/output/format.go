// Package output provides utilities for formatting and displaying schedule results.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/iwvelando/loan-schedule/internal/schedule"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/format"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/report"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
// An empty currency falls back to the result's currency.
func PrettyFormat(w io.Writer, result *schedule.Result, currency string) error {
	if result == nil || len(result.Rows) == 0 {
		return report.ErrEmptySchedule
	}
	if currency == "" {
		currency = result.Currency
	}
	money := func(v float64) string { return format.Currency(v, currency) }

	p := message.NewPrinter(format.Locale)
	ew := &errWriter{w: w}
	if result.Name != "" {
		ew.printf(p, "--- Amortization schedule for %s ---\n", result.Name)
	} else {
		ew.printf(p, "--- Amortization schedule ---\n")
	}

	s := result.Summary
	ew.printf(p, "First installment: %s\n", money(s.FirstInstallment))
	ew.printf(p, "Total interest:    %s\n", money(s.TotalInterest))
	ew.printf(p, "Total payment:     %s\n", money(s.TotalPaid))
	ew.printf(p, "Closure date:      %s\n", datetime.Label(s.PayoffDate))
	if s.MonthsSaved > 0 {
		ew.printf(p, "Months saved:      %d\n", s.MonthsSaved)
	}
	for _, warning := range result.Warnings {
		ew.printf(p, "Warning: %s\n", warning)
	}
	ew.printf(p, "\n")

	ew.printf(p, "%5s | %-10s | %14s | %14s | %7s | %14s | %14s | %14s\n",
		"Month", "Date", "Installment", "Principal", "Rate", "Interest", "Lump Sum", "Balance")
	ew.printf(p, "%5s | %-10s | %14s | %14s | %7s | %14s | %14s | %14s\n",
		"_____", "__________", "___________", "_________", "____", "________", "________", "_______")
	for _, row := range result.Rows {
		lump := "-"
		if row.LumpSum > 0 {
			lump = money(row.LumpSum)
		}
		ew.printf(p, "%5d | %-10s | %14s | %14s | %7s | %14s | %14s | %14s\n",
			row.Month, datetime.Format(row.Date), money(row.Installment), money(row.Principal),
			format.Percent(row.AnnualRate), money(row.Interest), lump, money(row.Balance))
	}
	return ew.err
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, rows []loans.PeriodRow) error {
	if len(rows) == 0 {
		return report.ErrEmptySchedule
	}
	ew := &errWriter{w: w}
	ew.printf(nil, `"month","date","installment","principal","interest","rate","lump sum","balance","total payment"`+"\n")
	for _, row := range rows {
		ew.printf(nil, `"%d","%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f"`+"\n",
			row.Month, datetime.Format(row.Date), row.Installment, row.Principal, row.Interest,
			row.AnnualRate, row.LumpSum, row.Balance, row.TotalPayment())
	}
	return ew.err
}

// CsvString returns the CsvFormat rendering of rows.
func CsvString(rows []loans.PeriodRow) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the whole result as indented JSON.
func JSONFormat(w io.Writer, result *schedule.Result) error {
	if result == nil || len(result.Rows) == 0 {
		return report.ErrEmptySchedule
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// errWriter keeps the first write error so the table code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(p *message.Printer, layout string, args ...any) {
	if ew.err != nil {
		return
	}
	if p != nil {
		_, ew.err = p.Fprintf(ew.w, layout, args...)
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, layout, args...)
}
