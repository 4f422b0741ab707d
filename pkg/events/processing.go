// Package events provides dated event utilities: attributing events to
// period windows and expanding recurring events into occurrence dates.
package events

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
)

// Tracker attributes dated events to consecutive period windows. Each event is
// handed out at most once. The tracker owns copies of the dates it was built
// from and never touches the caller's data.
type Tracker struct {
	dates    []civil.Date
	order    []int
	consumed []bool
}

// NewTracker builds a tracker over the given dates. Events are visited in
// ascending date order; events sharing a date keep their original relative
// order.
func NewTracker(dates []civil.Date) *Tracker {
	t := &Tracker{
		dates:    append([]civil.Date(nil), dates...),
		order:    make([]int, len(dates)),
		consumed: make([]bool, len(dates)),
	}
	for i := range t.order {
		t.order[i] = i
	}
	sort.SliceStable(t.order, func(a, b int) bool {
		return t.dates[t.order[a]].Before(t.dates[t.order[b]])
	})
	return t
}

// Window returns the indices, in sorted order, of every unconsumed event dated
// within (previous, current] and marks them consumed.
func (t *Tracker) Window(previous, current civil.Date) []int {
	var selected []int
	for _, idx := range t.order {
		if t.consumed[idx] {
			continue
		}
		if datetime.InWindow(t.dates[idx], previous, current) {
			t.consumed[idx] = true
			selected = append(selected, idx)
		}
	}
	return selected
}

// Pending returns the number of events not yet handed out.
func (t *Tracker) Pending() int {
	n := 0
	for _, c := range t.consumed {
		if !c {
			n++
		}
	}
	return n
}

// Recurrence describes an event that repeats every Frequency months from
// StartDate through EndDate. A zero Frequency or an empty EndDate describes a
// one-time event.
type Recurrence struct {
	StartDate civil.Date
	EndDate   civil.Date
	Frequency int // months
}

// FormDateList expands the recurrence into its occurrence dates. The end date
// is included when it lands exactly on an occurrence.
func (r Recurrence) FormDateList() ([]civil.Date, error) {
	dateList := []civil.Date{r.StartDate}
	if r.Frequency == 0 || r.EndDate.IsZero() {
		return dateList, nil
	}
	if r.Frequency < 0 {
		return nil, fmt.Errorf("invalid frequency %d: must be a positive number of months", r.Frequency)
	}
	if r.EndDate.Before(r.StartDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", r.EndDate, r.StartDate)
	}

	for n := 1; ; n++ {
		// Offsets are taken from the start date so month-end days do not drift.
		nextDate := datetime.AddMonths(r.StartDate, n*r.Frequency)
		if nextDate.After(r.EndDate) {
			break
		}
		dateList = append(dateList, nextDate)
	}
	return dateList, nil
}
