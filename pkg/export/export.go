// Package export writes a completed schedule as a spreadsheet, a printable
// report or an interactive chart.
package export

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/internal/schedule"
)

// Params describes the loan being exported.
type Params struct {
	Name        string
	Principal   float64
	AnnualRate  float64
	Years       float64
	StartDate   civil.Date
	Currency    string
	GeneratedAt time.Time
}

// ParamsFromResult builds export parameters from a computed result.
func ParamsFromResult(result *schedule.Result) Params {
	return Params{
		Name:       result.Name,
		Principal:  result.Input.Principal,
		AnnualRate: result.Input.AnnualRatePercent,
		Years:      result.Input.DurationYears,
		StartDate:  result.Input.StartDate,
		Currency:   result.Currency,
	}
}

func (p Params) generatedAt() time.Time {
	if p.GeneratedAt.IsZero() {
		return time.Now()
	}
	return p.GeneratedAt
}

func (p Params) rateLabel() string {
	return strconv.FormatFloat(p.AnnualRate, 'f', -1, 64) + "%"
}

func (p Params) durationLabel() string {
	return strconv.FormatFloat(p.Years, 'f', -1, 64) + " Years"
}
