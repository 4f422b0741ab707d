// Package schedule turns a loan configuration into a computed amortization
// schedule with its summary and chart series.
package schedule

import (
	"fmt"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/report"
	"github.com/iwvelando/loan-schedule/pkg/validation"
	"go.uber.org/zap"
)

// Result holds everything derived from one loan.
type Result struct {
	Name     string                `json:"name,omitempty"`
	Input    loans.LoanInput       `json:"-"`
	Events   []loans.ScheduleEvent `json:"-"`
	Currency string                `json:"currency"`
	Rows     []loans.PeriodRow     `json:"rows"`
	Summary  report.Summary        `json:"summary"`
	Chart    report.ChartSeries    `json:"chart"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Compute validates the configuration, expands its events and generates the
// schedule.
func Compute(logger *zap.Logger, conf *config.Configuration) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		return nil, fmt.Errorf("no configuration provided")
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	input, err := conf.Loan.ToLoanInput()
	if err != nil {
		return nil, err
	}
	scheduleEvents, err := conf.Loan.ToEvents()
	if err != nil {
		return nil, err
	}

	result, err := Run(logger, input, scheduleEvents, conf.Currency())
	if err != nil {
		return nil, err
	}
	result.Name = conf.Loan.Name
	return result, nil
}

// Run generates the schedule for already-parsed input. Input and events are
// validated first; every violation is reported in the returned error.
func Run(logger *zap.Logger, input loans.LoanInput, scheduleEvents []loans.ScheduleEvent, currency string) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := validation.Validate(input, scheduleEvents); err != nil {
		return nil, err
	}
	if err := validation.ValidateCurrencyCode(currency); err != nil {
		return nil, err
	}

	warnings := validation.EventWarnings(input, scheduleEvents)
	for _, warning := range warnings {
		logger.Warn(warning, zap.String("op", "schedule.Run"))
	}

	rows := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(input, scheduleEvents)
	summary, err := report.Summarize(rows, input)
	if err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("generated %d periods, payoff %s", len(rows), summary.PayoffDate),
		zap.String("op", "schedule.Run"),
	)

	return &Result{
		Input:    input,
		Events:   scheduleEvents,
		Currency: currency,
		Rows:     rows,
		Summary:  summary,
		Chart:    report.BuildChartSeries(rows),
		Warnings: warnings,
	}, nil
}
