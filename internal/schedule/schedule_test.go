package schedule

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		Loan: config.Loan{
			Name:       "Car",
			Principal:  100000,
			AnnualRate: 10,
			Years:      1,
			StartDate:  "2024-01-01",
			Currency:   "USD",
			Events: []config.Event{
				{Name: "Bonus", Date: "2024-06-01", Amount: 20000},
			},
		},
	}
}

func TestCompute(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	result, err := Compute(logger, testConfig())
	require.NoError(t, err)

	assert.Equal(t, "Car", result.Name)
	assert.Equal(t, "USD", result.Currency)
	require.Len(t, result.Rows, 12)
	bonus := testutil.FindRow(result.Rows, civil.Date{Year: 2024, Month: 6, Day: 1})
	require.NotNil(t, bonus)
	assert.InDelta(t, 20000, bonus.LumpSum, 1e-9)
	assert.InDelta(t, 20000, result.Summary.TotalLumpSums, 1e-9)
	assert.Equal(t, civil.Date{Year: 2025, Month: 1, Day: 1}, result.Summary.PayoffDate)
	assert.Len(t, result.Chart.Labels, 12)
	assert.Empty(t, result.Warnings)
}

func TestCompute_InvalidConfiguration(t *testing.T) {
	conf := testConfig()
	conf.Loan.Principal = 0

	_, err := Compute(zap.NewNop(), conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "principal must be positive")
}

func TestCompute_WarnsAboutUnreachableEvents(t *testing.T) {
	conf := testConfig()
	conf.Loan.Events = []config.Event{
		{Date: "2024-01-01", Amount: 10},
		{Date: "2026-01-01", Amount: 10},
	}

	result, err := Compute(zap.NewNop(), conf)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "on or before the start date")
	assert.Contains(t, result.Warnings[1], "after the final period")
}

func TestCompute_NilConfiguration(t *testing.T) {
	_, err := Compute(nil, nil)
	assert.Error(t, err)
}

func TestRun_LogsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := loans.LoanInput{
		Principal:         1000,
		AnnualRatePercent: 5,
		DurationYears:     1,
		StartDate:         civil.Date{Year: 2024, Month: 1, Day: 1},
	}
	scheduleEvents := []loans.ScheduleEvent{
		{Date: civil.Date{Year: 2024, Month: 1, Day: 1}, Amount: 100},
	}

	result, err := Run(zap.New(core), input, scheduleEvents, "USD")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, logs.FilterMessageSnippet("on or before the start date").Len())
	// The start-date event is never applied.
	for _, row := range result.Rows {
		assert.Zero(t, row.LumpSum)
	}
}

func TestRun_RejectsUnknownCurrency(t *testing.T) {
	input := loans.LoanInput{
		Principal:         1000,
		AnnualRatePercent: 5,
		DurationYears:     1,
		StartDate:         civil.Date{Year: 2024, Month: 1, Day: 1},
	}
	_, err := Run(nil, input, nil, "ZZZZ")
	assert.Error(t, err)
}
