package config

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/events"
	"github.com/iwvelando/loan-schedule/pkg/loans"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name       string
	Principal  float64
	AnnualRate float64 `mapstructure:"annualRate"`
	Years      float64
	StartDate  string `mapstructure:"startDate"`
	Currency   string
	Events     []Event
}

// Event indicates a lump-sum payment and/or rate change. With a Frequency
// in months and an EndDate it repeats from Date through EndDate.
type Event struct {
	Name      string
	Date      string
	Amount    float64
	NewRate   *float64 `mapstructure:"newRate"`
	Frequency int      // months
	EndDate   string   `mapstructure:"endDate"`
}

// ToLoanInput converts the loan parameters into engine input.
func (loan Loan) ToLoanInput() (loans.LoanInput, error) {
	start, err := datetime.ParseDate(loan.StartDate)
	if err != nil {
		return loans.LoanInput{}, fmt.Errorf("loan start date: %w", err)
	}
	return loans.LoanInput{
		Principal:         loan.Principal,
		AnnualRatePercent: loan.AnnualRate,
		DurationYears:     loan.Years,
		StartDate:         start,
	}, nil
}

// ToEvents converts the configured events into engine events, expanding
// recurring events into one event per occurrence.
func (loan Loan) ToEvents() ([]loans.ScheduleEvent, error) {
	var scheduleEvents []loans.ScheduleEvent
	for i, event := range loan.Events {
		dates, err := event.DateList()
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i+1, event.label(), err)
		}
		for _, d := range dates {
			scheduleEvents = append(scheduleEvents, loans.ScheduleEvent{
				Date:    d,
				Amount:  event.Amount,
				NewRate: event.NewRate,
			})
		}
	}
	return scheduleEvents, nil
}

// DateList returns every date on which the event occurs.
func (event Event) DateList() ([]civil.Date, error) {
	start, err := datetime.ParseDate(event.Date)
	if err != nil {
		return nil, err
	}
	recurrence := events.Recurrence{StartDate: start, Frequency: event.Frequency}
	if event.EndDate != "" {
		recurrence.EndDate, err = datetime.ParseDate(event.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
	}
	return recurrence.FormDateList()
}

func (event Event) label() string {
	if event.Name != "" {
		return event.Name
	}
	return event.Date
}
