package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

var (
	ErrHistoryFromDateInvalid = errors.New("history invalid from date")
	ErrHistoryToDateInvalid   = errors.New("history invalid to date")
	ErrHistoryRangeInvalid    = errors.New("history invalid range")
)

var HistoryCSVHeaders = []string{"Date", "Time", "Medication", "Dosage", "Action"}

// HistoryRange is a half-open interval of instants. Nil bounds are open.
type HistoryRange struct {
	From *time.Time
	To   *time.Time
}

// ParseHistoryRange reads optional DD/MM/YYYY days. Both days are inclusive and
// interpreted in location, so to covers the whole of its calendar day.
func ParseHistoryRange(rawFrom string, rawTo string, location *time.Location) (HistoryRange, error) {
	if location == nil {
		location = time.UTC
	}
	historyRange := HistoryRange{}

	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		day, ok := schedule.ParseDate(fromRaw)
		if !ok {
			return HistoryRange{}, ErrHistoryFromDateInvalid
		}
		from := localMidnight(day, location)
		historyRange.From = &from
	}

	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		day, ok := schedule.ParseDate(toRaw)
		if !ok {
			return HistoryRange{}, ErrHistoryToDateInvalid
		}
		to := localMidnight(day.AddDate(0, 0, 1), location)
		historyRange.To = &to
	}

	if historyRange.From != nil && historyRange.To != nil && !historyRange.From.Before(*historyRange.To) {
		return HistoryRange{}, ErrHistoryRangeInvalid
	}
	return historyRange, nil
}

// HistoryCSVRow renders one history entry in the columns of HistoryCSVHeaders.
func HistoryCSVRow(event models.MedicationEvent, location *time.Location) []string {
	if location == nil {
		location = time.UTC
	}
	local := event.OccurredAt.In(location)
	return []string{
		local.Format(schedule.DateLayout),
		local.Format("15:04"),
		event.MedicationName,
		event.Dosage,
		event.Action,
	}
}

func localMidnight(day time.Time, location *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, location)
}
