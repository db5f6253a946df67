package domain

import (
	"fmt"
	"sort"
	"time"
)

// DayGroup names a relative date range evaluated against "now" at request
// time. All calendar arithmetic runs in UTC.
type DayGroup string

const (
	DayGroupToday     DayGroup = "today"
	DayGroupYesterday DayGroup = "yesterday"
	DayGroupWeek      DayGroup = "week"
	DayGroupMonth     DayGroup = "month"
)

// Valid reports whether g is one of the known day groups.
func (g DayGroup) Valid() bool {
	switch g {
	case DayGroupToday, DayGroupYesterday, DayGroupWeek, DayGroupMonth:
		return true
	}
	return false
}

// YearMonth identifies one calendar month. The zero value means "unset".
type YearMonth struct {
	Year  int
	Month time.Month
}

func (m YearMonth) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseYearMonth parses a YYYY-MM value.
func ParseYearMonth(value string) (YearMonth, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return YearMonth{}, NewError(ErrCodeInvalid, "month must be in YYYY-MM format")
	}
	return YearMonth{Year: parsed.Year(), Month: parsed.Month()}, nil
}

// ParseDate parses a YYYY-MM-DD value into a UTC day.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, NewError(ErrCodeInvalid, "date must be in YYYY-MM-DD format")
	}
	return parsed, nil
}

// ListFilter describes the constraints applied to a task listing. Zero-value
// fields impose no constraint; every set field is ANDed with the rest. The
// engine never rejects a combination: an impossible AND (say, a date outside
// the requested month) simply matches nothing. Keeping the three date modes
// mutually exclusive is the caller's policy, not an invariant here.
type ListFilter struct {
	Status   Status
	Date     time.Time // calendar-day equality, UTC; zero = unset
	DayGroup DayGroup
	Month    YearMonth
}

// IsZero reports whether the filter imposes no constraint at all.
func (f ListFilter) IsZero() bool {
	return f.Status == "" && f.Date.IsZero() && f.DayGroup == "" && f.Month.IsZero()
}

// Matches reports whether t satisfies every set constraint, with day-group
// ranges evaluated relative to now.
func (f ListFilter) Matches(t Task, now time.Time) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}

	day := DateOf(t.CreatedAt)

	if !f.Date.IsZero() && !day.Equal(DateOf(f.Date)) {
		return false
	}

	if f.DayGroup != "" {
		today := DateOf(now)
		switch f.DayGroup {
		case DayGroupToday:
			if !day.Equal(today) {
				return false
			}
		case DayGroupYesterday:
			if !day.Equal(today.AddDate(0, 0, -1)) {
				return false
			}
		case DayGroupWeek:
			if day.Before(today.AddDate(0, 0, -7)) {
				return false
			}
		case DayGroupMonth:
			if day.Before(today.AddDate(0, 0, -30)) {
				return false
			}
		default:
			return false
		}
	}

	if !f.Month.IsZero() {
		year, month, _ := t.CreatedAt.UTC().Date()
		if year != f.Month.Year || month != f.Month.Month {
			return false
		}
	}

	return true
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AvailableDates returns the distinct UTC calendar days that carry at least
// one of the given tasks, ascending, formatted as YYYY-MM-DD. Recomputed from
// current state on every call; nothing is cached.
func AvailableDates(tasks []Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	dates := make([]string, 0, len(tasks))
	for _, t := range tasks {
		day := DateOf(t.CreatedAt).Format("2006-01-02")
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	sort.Strings(dates)
	return dates
}

// AvailableMonths returns the distinct YYYY-MM values across the given
// tasks, ascending.
func AvailableMonths(tasks []Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	months := make([]string, 0, len(tasks))
	for _, t := range tasks {
		year, month, _ := t.CreatedAt.UTC().Date()
		value := YearMonth{Year: year, Month: month}.String()
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		months = append(months, value)
	}
	sort.Strings(months)
	return months
}
