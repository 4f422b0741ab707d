// Package report derives summary statistics and chart series from a completed
// amortization schedule.
package report

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/shopspring/decimal"
)

// ErrEmptySchedule is returned by collaborators that need at least one row.
var ErrEmptySchedule = errors.New("schedule has no rows")

// Summary holds the aggregate figures shown next to a schedule.
type Summary struct {
	FirstInstallment float64    `json:"firstInstallment"`
	TotalInterest    float64    `json:"totalInterest"`
	TotalPrincipal   float64    `json:"totalPrincipal"`
	TotalLumpSums    float64    `json:"totalLumpSums"`
	TotalPaid        float64    `json:"totalPaid"`
	PayoffDate       civil.Date `json:"payoffDate"`
	Periods          int        `json:"periods"`
	MonthsSaved      int        `json:"monthsSaved"`
}

// Summarize totals the schedule rows. Sums are accumulated in decimal and
// rounded to cents so that long schedules do not drift.
func Summarize(rows []loans.PeriodRow, input loans.LoanInput) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, ErrEmptySchedule
	}

	interest := decimal.Zero
	principal := decimal.Zero
	lumpSums := decimal.Zero
	for _, row := range rows {
		interest = interest.Add(decimal.NewFromFloat(row.Interest))
		principal = principal.Add(decimal.NewFromFloat(row.Principal))
		lumpSums = lumpSums.Add(decimal.NewFromFloat(row.LumpSum))
	}
	principal = principal.Add(lumpSums)

	last := rows[len(rows)-1]
	return Summary{
		FirstInstallment: cents(decimal.NewFromFloat(rows[0].Installment)),
		TotalInterest:    cents(interest),
		TotalPrincipal:   cents(principal),
		TotalLumpSums:    cents(lumpSums),
		TotalPaid:        cents(principal.Add(interest)),
		PayoffDate:       last.Date,
		Periods:          len(rows),
		MonthsSaved:      max(input.TotalMonths()-len(rows), 0),
	}, nil
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
