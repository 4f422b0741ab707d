// Package loans provides the amortization engine: the installment formula and
// the month-by-month schedule generator.
package loans

import (
	"fmt"
	"math"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/events"
	"github.com/iwvelando/loan-schedule/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanInput holds the parameters of one engine invocation.
type LoanInput struct {
	Principal         float64
	AnnualRatePercent float64
	DurationYears     float64
	StartDate         civil.Date
}

// TotalMonths returns the nominal number of periods, round(years*12).
func (in LoanInput) TotalMonths() int {
	return int(math.Round(in.DurationYears * constants.MonthsPerYear))
}

// ScheduleEvent is a dated lump-sum payment and/or interest rate change.
type ScheduleEvent struct {
	Date    civil.Date
	Amount  float64  // lump-sum principal reduction, 0 when absent
	NewRate *float64 // annual percent, nil when the rate is unchanged
}

// HasLumpSum reports whether the event carries a principal payment.
func (e ScheduleEvent) HasLumpSum() bool {
	return e.Amount > 0
}

// HasRateChange reports whether the event carries a new annual rate.
func (e ScheduleEvent) HasRateChange() bool {
	return e.NewRate != nil
}

// PeriodRow holds the values for one elapsed month of the schedule.
type PeriodRow struct {
	Month       int        `json:"month"`
	Date        civil.Date `json:"date"`
	Installment float64    `json:"installment"`
	Principal   float64    `json:"principal"`
	Interest    float64    `json:"interest"`
	LumpSum     float64    `json:"lumpSum"`
	Balance     float64    `json:"balance"`
	AnnualRate  float64    `json:"annualRate"`
}

// TotalPayment is the cash paid in the period, installment plus lump sum.
func (r PeriodRow) TotalPayment() float64 {
	return r.Installment + r.LumpSum
}

// Installment returns the fixed payment that fully amortizes balance over
// remainingMonths periods at monthlyRate.
func Installment(balance, monthlyRate float64, remainingMonths int) float64 {
	if remainingMonths <= 0 {
		return balance
	}
	if monthlyRate == 0 {
		return balance / float64(remainingMonths)
	}

	power := math.Pow(1+monthlyRate, float64(remainingMonths))
	return balance * monthlyRate * power / (power - 1)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule walks the loan month by month, applying the events that
// fall into each period window, and returns one row per elapsed month until
// payoff or the end of the nominal term. The events slice is not modified.
func (g *AmortizationScheduleGenerator) GenerateSchedule(input LoanInput, scheduleEvents []ScheduleEvent) []PeriodRow {
	const op = "loans.GenerateSchedule"

	eventsCopy := append([]ScheduleEvent(nil), scheduleEvents...)
	eventDates := make([]civil.Date, len(eventsCopy))
	for i, event := range eventsCopy {
		eventDates[i] = event.Date
	}
	tracker := events.NewTracker(eventDates)

	balance := input.Principal
	annualRate := input.AnnualRatePercent
	monthlyRate := mathutil.MonthlyRate(annualRate)
	totalMonths := input.TotalMonths()
	currentInstallment := Installment(balance, monthlyRate, totalMonths)

	schedule := make([]PeriodRow, 0, max(totalMonths, 0))
	for month := 1; month <= totalMonths; month++ {
		if !mathutil.IsPositive(balance) {
			break
		}

		currentDate := datetime.AddMonths(input.StartDate, month)
		previousDate := datetime.AddMonths(input.StartDate, month-1)

		lumpSum := 0.0
		rateChanged := false
		for _, idx := range tracker.Window(previousDate, currentDate) {
			event := eventsCopy[idx]
			if event.HasLumpSum() {
				lumpSum += event.Amount
			}
			if event.HasRateChange() {
				annualRate = *event.NewRate
				monthlyRate = mathutil.MonthlyRate(annualRate)
				rateChanged = true
				g.logger.Debug(fmt.Sprintf("%s: rate changed to %.4f%% at month %d",
					datetime.Format(event.Date), annualRate, month),
					zap.String("op", op),
				)
			}
		}

		// The lump sum reduces the balance before this period's interest accrues.
		if lumpSum > 0 {
			if lumpSum > balance {
				g.logger.Debug("capping lump sum to outstanding balance",
					zap.String("op", op),
					zap.Int("month", month),
					zap.Float64("requested", lumpSum),
					zap.Float64("capped_to_balance", balance),
				)
				lumpSum = balance
			}
			balance -= lumpSum
			g.logger.Debug(fmt.Sprintf("%s: applying lump sum %.2f at month %d",
				datetime.Format(currentDate), lumpSum, month),
				zap.String("op", op),
			)
		}

		interest := balance * monthlyRate

		// A rate change re-amortizes over the remaining periods including this one.
		if rateChanged && mathutil.IsPositive(balance) {
			currentInstallment = Installment(balance, monthlyRate, totalMonths-month+1)
		}

		actualInstallment := currentInstallment
		if balance+interest < currentInstallment {
			actualInstallment = balance + interest
		}

		principal := actualInstallment - interest
		balance -= principal
		if balance < 0 {
			balance = 0
		}

		schedule = append(schedule, PeriodRow{
			Month:       month,
			Date:        currentDate,
			Installment: actualInstallment,
			Principal:   principal,
			Interest:    interest,
			LumpSum:     lumpSum,
			Balance:     balance,
			AnnualRate:  annualRate,
		})

		// A lump sum alone shortens the installment from the next period on.
		// When the rate also changed the installment above already used the
		// reduced balance.
		if lumpSum > 0 && !rateChanged && mathutil.IsPositive(balance) {
			if remaining := totalMonths - month; remaining > 0 {
				currentInstallment = Installment(balance, monthlyRate, remaining)
			}
		}
	}

	if pending := tracker.Pending(); pending > 0 {
		g.logger.Debug(fmt.Sprintf("%d events fell outside every period window and were not applied", pending),
			zap.String("op", op),
		)
	}

	return schedule
}

// RawEvent is an event as it arrives from an external caller, with an
// ISO-8601 date string.
type RawEvent struct {
	Date    string
	Amount  float64
	NewRate *float64
}

// GenerateScheduleFromStrings parses ISO-8601 dates and generates the
// schedule. It fails only on malformed dates.
func (g *AmortizationScheduleGenerator) GenerateScheduleFromStrings(principal, annualRatePercent, years float64,
	startDate string, rawEvents []RawEvent) ([]PeriodRow, error) {
	start, err := datetime.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	parsed := make([]ScheduleEvent, 0, len(rawEvents))
	for i, raw := range rawEvents {
		d, err := datetime.ParseDate(raw.Date)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		parsed = append(parsed, ScheduleEvent{Date: d, Amount: raw.Amount, NewRate: raw.NewRate})
	}

	input := LoanInput{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		DurationYears:     years,
		StartDate:         start,
	}
	return g.GenerateSchedule(input, parsed), nil
}
