package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/mathutil"
	"github.com/iwvelando/loan-schedule/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const exampleConfigPath = "../../loan.yaml.example"

func TestExampleConfiguration(t *testing.T) {
	conf, err := config.LoadConfiguration(exampleConfigPath)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	result, err := Compute(zap.NewNop(), conf)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	// The extra payments shorten a 360-month loan.
	assert.Less(t, len(result.Rows), 360)
	assert.Equal(t, 360-len(result.Rows), result.Summary.MonthsSaved)
	assert.True(t, result.Chart.Yearly)

	last := result.Rows[len(result.Rows)-1]
	assert.True(t, mathutil.IsZero(last.Balance), "balance %v not paid off", last.Balance)
	assert.InDelta(t, conf.Loan.Principal, result.Summary.TotalPrincipal, 0.05)

	// 25000 bonus plus eleven semiannual payments of 2000.
	assert.InDelta(t, 47000, result.Summary.TotalLumpSums, 1e-6)
}

func TestDataConsistency(t *testing.T) {
	conf, err := config.LoadConfiguration(exampleConfigPath)
	require.NoError(t, err)

	first, err := Compute(zap.NewNop(), conf)
	require.NoError(t, err)
	second, err := Compute(zap.NewNop(), conf)
	require.NoError(t, err)

	// Results must be deterministic across runs.
	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i], second.Rows[i], "row %d", i+1)
	}
	assert.Equal(t, first.Summary, second.Summary)
}

func TestPerformance(t *testing.T) {
	conf, err := config.LoadConfiguration(exampleConfigPath)
	require.NoError(t, err)

	// Monthly extra payments for the whole term.
	conf.Loan.Events = append(conf.Loan.Events, config.Event{
		Name: "Monthly extra", Date: "2024-02-01", Amount: 50, Frequency: 1, EndDate: "2053-12-01",
	})

	start := time.Now()
	result, err := Compute(zap.NewNop(), conf)
	require.NoError(t, err)
	elapsed := time.Since(start)

	t.Logf("computed %d rows in %s", len(result.Rows), elapsed)
	if elapsed > 2*time.Second {
		t.Errorf("schedule took %s, expected well under 2s", elapsed)
	}
}

func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		years  float64
		events []config.Event
	}{
		{name: "zero rate", rate: 0, years: 5},
		{name: "fractional years", rate: 4.2, years: 2.5},
		{name: "high rate", rate: 24, years: 3},
		{name: "rate to zero", rate: 8, years: 10, events: []config.Event{{Date: "2027-01-01", NewRate: testutil.RatePtr(0)}}},
		{name: "early payoff", rate: 5, years: 15, events: []config.Event{{Date: "2030-05-01", Amount: 1e7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &config.Configuration{Loan: config.Loan{
				Principal: 200000, AnnualRate: tt.rate, Years: tt.years, StartDate: "2024-01-01", Events: tt.events,
			}}
			result, err := Compute(zap.NewNop(), conf)
			require.NoError(t, err)
			checkRows(t, result.Rows)
		})
	}
}

func checkRows(t *testing.T, rows []loans.PeriodRow) {
	t.Helper()
	require.NotEmpty(t, rows)
	previous := math.Inf(1)
	for _, row := range rows {
		assert.LessOrEqual(t, row.Balance, previous)
		assert.GreaterOrEqual(t, row.Balance, 0.0)
		assert.InDelta(t, row.Installment, row.Principal+row.Interest, 1e-6*math.Max(1, row.Installment))
		previous = row.Balance
	}
	assert.True(t, mathutil.IsZero(rows[len(rows)-1].Balance), "balance %v not paid off", rows[len(rows)-1].Balance)
}
