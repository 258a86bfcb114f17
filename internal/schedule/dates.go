package schedule

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the day/month/year encoding used for stored medication and birth dates.
const DateLayout = "02/01/2006"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a strict DD/MM/YYYY string into midnight UTC of that calendar day.
// Any other shape, or a day that does not exist in the month, reports ok == false.
func ParseDate(raw string) (time.Time, bool) {
	if len(raw) != len(DateLayout) || raw[2] != '/' || raw[5] != '/' {
		return time.Time{}, false
	}

	day, ok := parseDigits(raw[0:2])
	if !ok {
		return time.Time{}, false
	}
	month, ok := parseDigits(raw[3:5])
	if !ok {
		return time.Time{}, false
	}
	year, ok := parseDigits(raw[6:10])
	if !ok {
		return time.Time{}, false
	}

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func ValidateDate(raw string) error {
	if _, ok := ParseDate(strings.TrimSpace(raw)); !ok {
		return ErrInvalidDate
	}
	return nil
}

// Today reduces an instant to its calendar day in the instant's own location,
// expressed at midnight UTC so it compares with ParseDate results.
func Today(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func FormatDate(day time.Time) string {
	if day.IsZero() {
		return ""
	}
	return day.Format(DateLayout)
}

func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// FormatDateInput keeps the first eight digits typed by a user and inserts
// the slashes of DD/MM/YYYY as the value grows.
func FormatDateInput(raw string) string {
	digits := make([]rune, 0, 8)
	for _, char := range raw {
		if len(digits) == 8 {
			break
		}
		if char >= '0' && char <= '9' {
			digits = append(digits, char)
		}
	}

	switch {
	case len(digits) > 4:
		return string(digits[:2]) + "/" + string(digits[2:4]) + "/" + string(digits[4:])
	case len(digits) > 2:
		return string(digits[:2]) + "/" + string(digits[2:])
	default:
		return string(digits)
	}
}

func parseDigits(value string) (int, bool) {
	result := 0
	for _, char := range value {
		if char < '0' || char > '9' {
			return 0, false
		}
		result = result*10 + int(char-'0')
	}
	return result, true
}
