package report

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneYearLoan() loans.LoanInput {
	return loans.LoanInput{
		Principal:         100000,
		AnnualRatePercent: 10,
		DurationYears:     1,
		StartDate:         civil.Date{Year: 2024, Month: 1, Day: 1},
	}
}

func TestSummarize_EmptySchedule(t *testing.T) {
	_, err := Summarize(nil, oneYearLoan())
	assert.ErrorIs(t, err, ErrEmptySchedule)
}

func TestSummarize_NoEvents(t *testing.T) {
	input := oneYearLoan()
	rows := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(input, nil)

	summary, err := Summarize(rows, input)
	require.NoError(t, err)

	assert.InDelta(t, 8791.59, summary.FirstInstallment, 0.01)
	assert.InDelta(t, 100000, summary.TotalPrincipal, 0.02)
	assert.InDelta(t, 5499.06, summary.TotalInterest, 0.05)
	assert.InDelta(t, summary.TotalPrincipal+summary.TotalInterest, summary.TotalPaid, 0.011)
	assert.Zero(t, summary.TotalLumpSums)
	assert.Equal(t, 12, summary.Periods)
	assert.Equal(t, 0, summary.MonthsSaved)
	assert.Equal(t, civil.Date{Year: 2025, Month: 1, Day: 1}, summary.PayoffDate)
}

func TestSummarize_LumpSumCountsAsPrincipal(t *testing.T) {
	input := oneYearLoan()
	rows := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(input, []loans.ScheduleEvent{
		{Date: civil.Date{Year: 2024, Month: 6, Day: 1}, Amount: 20000},
	})

	summary, err := Summarize(rows, input)
	require.NoError(t, err)

	assert.InDelta(t, 20000, summary.TotalLumpSums, 1e-9)
	assert.InDelta(t, 100000, summary.TotalPrincipal, 0.02)
	assert.Less(t, summary.TotalInterest, 5499.06)
}

func TestSummarize_MonthsSaved(t *testing.T) {
	input := oneYearLoan()
	rows := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(input, []loans.ScheduleEvent{
		{Date: civil.Date{Year: 2024, Month: 3, Day: 1}, Amount: 1e9},
	})

	summary, err := Summarize(rows, input)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Periods)
	assert.Equal(t, 10, summary.MonthsSaved)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1}, summary.PayoffDate)
}

func TestBuildChartSeries_PerPeriod(t *testing.T) {
	rows := []loans.PeriodRow{
		{Month: 1, Date: civil.Date{Year: 2024, Month: 2, Day: 1}, Principal: 100, Interest: 10},
		{Month: 2, Date: civil.Date{Year: 2024, Month: 3, Day: 1}, Principal: 101, Interest: 9, LumpSum: 500},
	}

	series := BuildChartSeries(rows)
	assert.False(t, series.Yearly)
	assert.Equal(t, []string{"Feb 2024", "Mar 2024"}, series.Labels)
	assert.Equal(t, []float64{100, 601}, series.Principal)
	assert.Equal(t, []float64{10, 9}, series.Interest)
}

func TestBuildChartSeries_YearlyAboveThreshold(t *testing.T) {
	input := loans.LoanInput{
		Principal:         240000,
		AnnualRatePercent: 0,
		DurationYears:     10,
		StartDate:         civil.Date{Year: 2024, Month: 1, Day: 1},
	}
	rows := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(input, nil)
	require.Len(t, rows, 120)

	series := BuildChartSeries(rows)
	assert.True(t, series.Yearly)
	// Feb 2024 .. Jan 2034 spans eleven calendar years.
	require.Len(t, series.Labels, 11)
	assert.Equal(t, "2024", series.Labels[0])
	assert.Equal(t, "2034", series.Labels[10])
	assert.InDelta(t, 22000, series.Principal[0], 1e-6)
	assert.InDelta(t, 24000, series.Principal[1], 1e-6)
	assert.InDelta(t, 2000, series.Principal[10], 1e-6)

	total := 0.0
	for _, v := range series.Principal {
		total += v
	}
	assert.InDelta(t, 240000, total, 0.01)
}

func TestBuildChartSeries_ThresholdIsInclusive(t *testing.T) {
	rows := make([]loans.PeriodRow, 60)
	for i := range rows {
		rows[i] = loans.PeriodRow{Month: i + 1, Date: civil.Date{Year: 2024 + i/12, Month: 1, Day: 1}}
	}
	assert.False(t, BuildChartSeries(rows).Yearly)
	assert.Len(t, BuildChartSeries(rows).Labels, 60)
}
