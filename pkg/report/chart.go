package report

import (
	"strconv"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/shopspring/decimal"
)

// ChartSeries is the data behind the stacked principal/interest bar chart.
type ChartSeries struct {
	Labels    []string  `json:"labels"`
	Principal []float64 `json:"principal"`
	Interest  []float64 `json:"interest"`
	Yearly    bool      `json:"yearly"`
}

// BuildChartSeries returns one bar per period, or one bar per calendar year
// when the schedule is longer than constants.YearlyAggregationThreshold rows.
// Principal paid includes the lump sum of the period.
func BuildChartSeries(rows []loans.PeriodRow) ChartSeries {
	if len(rows) <= constants.YearlyAggregationThreshold {
		series := ChartSeries{
			Labels:    make([]string, 0, len(rows)),
			Principal: make([]float64, 0, len(rows)),
			Interest:  make([]float64, 0, len(rows)),
		}
		for _, row := range rows {
			series.Labels = append(series.Labels, datetime.Label(row.Date))
			series.Principal = append(series.Principal, cents(decimal.NewFromFloat(row.Principal+row.LumpSum)))
			series.Interest = append(series.Interest, cents(decimal.NewFromFloat(row.Interest)))
		}
		return series
	}

	series := ChartSeries{Yearly: true}
	var principal, interest decimal.Decimal
	year := 0
	flush := func() {
		series.Labels = append(series.Labels, strconv.Itoa(year))
		series.Principal = append(series.Principal, cents(principal))
		series.Interest = append(series.Interest, cents(interest))
	}
	for i, row := range rows {
		if i > 0 && row.Date.Year != year {
			flush()
			principal, interest = decimal.Zero, decimal.Zero
		}
		year = row.Date.Year
		principal = principal.Add(decimal.NewFromFloat(row.Principal + row.LumpSum))
		interest = interest.Add(decimal.NewFromFloat(row.Interest))
	}
	flush()
	return series
}
