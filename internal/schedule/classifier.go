// Package schedule classifies medication records against a calendar day.
//
// All functions are pure: they read a snapshot of records and never mutate it.
// Dates compare at day granularity only.
package schedule

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/terraincognita07/mediplan/internal/models"
)

type datedMedication struct {
	medication models.Medication
	start      time.Time
}

// ActiveToday returns the medications whose start date is on or before today and
// whose end date, when present and parsable, is on or after today. Records with an
// unparsable start date are excluded. An unparsable end date counts as no end date.
// Input order is preserved.
func ActiveToday(records []models.Medication, today time.Time) []models.Medication {
	day := Today(today)
	return lo.Filter(records, func(record models.Medication, _ int) bool {
		return isActiveOn(record, day)
	})
}

// ActiveTodayByStart is ActiveToday ordered by start date, ties kept in input order.
func ActiveTodayByStart(records []models.Medication, today time.Time) []models.Medication {
	return sortByStart(ActiveToday(records, today))
}

// Upcoming returns the medications starting strictly after today, earliest first.
// Records sharing a start date keep their input order.
func Upcoming(records []models.Medication, today time.Time) []models.Medication {
	day := Today(today)
	return sortByStart(lo.Filter(records, func(record models.Medication, _ int) bool {
		start, ok := ParseDate(record.StartDate)
		return ok && day.Before(start)
	}))
}

func isActiveOn(record models.Medication, day time.Time) bool {
	start, ok := ParseDate(record.StartDate)
	if !ok || day.Before(start) {
		return false
	}
	if record.EndDate == "" {
		return true
	}
	end, ok := ParseDate(record.EndDate)
	if !ok {
		return true
	}
	return !day.After(end)
}

func sortByStart(records []models.Medication) []models.Medication {
	dated := lo.FilterMap(records, func(record models.Medication, _ int) (datedMedication, bool) {
		start, ok := ParseDate(record.StartDate)
		return datedMedication{medication: record, start: start}, ok
	})
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].start.Before(dated[j].start)
	})
	return lo.Map(dated, func(entry datedMedication, _ int) models.Medication {
		return entry.medication
	})
}
