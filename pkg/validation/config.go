// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"go.uber.org/multierr"
)

// ValidateLoanInput checks the loan parameters and returns every violation
// combined into one error, or nil.
func ValidateLoanInput(input loans.LoanInput) error {
	var err error
	if !isFinite(input.Principal) || input.Principal <= 0 {
		err = multierr.Append(err, fmt.Errorf("principal must be positive, got %v", input.Principal))
	}
	if !isFinite(input.AnnualRatePercent) || input.AnnualRatePercent < 0 {
		err = multierr.Append(err, fmt.Errorf("annual rate must not be negative, got %v", input.AnnualRatePercent))
	}
	if !isFinite(input.DurationYears) || input.DurationYears <= 0 {
		err = multierr.Append(err, fmt.Errorf("duration must be positive, got %v years", input.DurationYears))
	} else if input.TotalMonths() < 1 {
		err = multierr.Append(err, fmt.Errorf("duration of %v years is shorter than one month", input.DurationYears))
	}
	if input.StartDate.IsZero() {
		err = multierr.Append(err, fmt.Errorf("start date is required"))
	} else if !input.StartDate.IsValid() {
		err = multierr.Append(err, fmt.Errorf("start date %s is not a valid calendar date", input.StartDate))
	}
	return err
}

// ValidateEvents checks each event and returns every violation combined into
// one error, or nil.
func ValidateEvents(scheduleEvents []loans.ScheduleEvent) error {
	var err error
	for i, event := range scheduleEvents {
		label := fmt.Sprintf("event %d", i+1)
		if event.Date.IsZero() {
			err = multierr.Append(err, fmt.Errorf("%s: date is required", label))
		}
		if event.Amount < 0 || !isFinite(event.Amount) {
			err = multierr.Append(err, fmt.Errorf("%s: amount must be positive, got %v", label, event.Amount))
		}
		if event.NewRate != nil && (*event.NewRate < 0 || !isFinite(*event.NewRate)) {
			err = multierr.Append(err, fmt.Errorf("%s: new rate must not be negative, got %v", label, *event.NewRate))
		}
		if !event.HasLumpSum() && !event.HasRateChange() {
			err = multierr.Append(err, fmt.Errorf("%s: needs an amount or a new rate", label))
		}
	}
	return err
}

// Validate checks loan parameters and events together.
func Validate(input loans.LoanInput, scheduleEvents []loans.ScheduleEvent) error {
	return multierr.Combine(ValidateLoanInput(input), ValidateEvents(scheduleEvents))
}

// EventWarnings reports events that are valid but will never be applied:
// those dated on or before the start date and those after the nominal term.
func EventWarnings(input loans.LoanInput, scheduleEvents []loans.ScheduleEvent) []string {
	var warnings []string
	maturity := datetime.AddMonths(input.StartDate, input.TotalMonths())
	for i, event := range scheduleEvents {
		if !input.StartDate.Before(event.Date) {
			warnings = append(warnings, fmt.Sprintf("event %d on %s is on or before the start date %s and will not be applied",
				i+1, datetime.Format(event.Date), datetime.Format(input.StartDate)))
		} else if event.Date.After(maturity) {
			warnings = append(warnings, fmt.Sprintf("event %d on %s is after the final period %s and will not be applied",
				i+1, datetime.Format(event.Date), datetime.Format(maturity)))
		}
	}
	return warnings
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
