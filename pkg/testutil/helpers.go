// Package testutil provides common utility functions for testing.
package testutil

import (
	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/loans"
)

// FindRow finds the schedule row for a period date.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []loans.PeriodRow, date civil.Date) *loans.PeriodRow {
	for i := range rows {
		if rows[i].Date == date {
			return &rows[i]
		}
	}
	return nil
}

// RatePtr returns a pointer to v, for ScheduleEvent.NewRate literals.
func RatePtr(v float64) *float64 {
	return &v
}
