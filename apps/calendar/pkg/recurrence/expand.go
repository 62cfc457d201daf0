package recurrence

import (
	"time"
)

// DefaultHardCap bounds expansions when the caller has no better limit.
const DefaultHardCap = 1000

// Expand enumerates the occurrences of rule starting at anchor, in strictly
// increasing order. hardCap bounds the number of generated occurrences: a
// rule ending Never stops there, while AfterCount and OnDate rules that
// would need more fail with ErrCapExceeded. On error no occurrences are
// returned.
func Expand(rule Rule, anchor Anchor, hardCap int) ([]Occurrence, error) {
	if hardCap < 1 {
		return nil, invalid("hardCap", "hard cap must be at least 1")
	}

	if err := anchor.validate(); err != nil {
		return nil, err
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	start := civil(anchor.StartDate)

	if rule.Frequency == None {
		return []Occurrence{anchor.materialize(start)}, nil
	}

	var until time.Time
	switch rule.End.Kind {
	case EndOnDate:
		until = civil(rule.End.Date)
		if until.Before(start) {
			return nil, invalid("end", "end date is before the start date")
		}
	case EndAfterCount:
		if rule.End.Count > hardCap {
			return nil, capExceeded(hardCap)
		}
	case EndNever:
	}

	next := rule.dates(start)
	dates := make([]time.Time, 0, initialCapacity(rule, hardCap))

	for date := next(); ; date = next() {
		if rule.End.Kind == EndOnDate && date.After(until) {
			break
		}

		if len(dates) == hardCap {
			if rule.End.Kind == EndNever {
				break
			}
			return nil, capExceeded(hardCap)
		}

		dates = append(dates, date)

		if rule.End.Kind == EndAfterCount && len(dates) == rule.End.Count {
			break
		}
	}

	occurrences := make([]Occurrence, 0, len(dates))
	for _, date := range dates {
		occurrences = append(occurrences, anchor.materialize(date))
	}

	return occurrences, nil
}

func initialCapacity(rule Rule, hardCap int) int {
	//nolint:mnd //small default, OnDate rules grow as needed
	capacity := 16
	if rule.End.Kind == EndAfterCount {
		capacity = rule.End.Count
	}
	return min(capacity, hardCap)
}

// dates returns a generator of civil dates; the first call yields the first
// occurrence.
func (rule Rule) dates(start time.Time) func() time.Time {
	switch {
	case rule.weekdayMode():
		everyWeeks := 1
		if rule.Frequency == Weekly {
			everyWeeks = rule.Interval
		}
		return weekdayDates(start, rule.DaysOfWeek, everyWeeks)
	case rule.Frequency == Monthly:
		n := 0
		return func() time.Time {
			date := addMonthsClamped(start, n*rule.Interval)
			n++
			return date
		}
	default:
		step := rule.stepDays()
		n := 0
		return func() time.Time {
			date := start.AddDate(0, 0, n*step)
			n++
			return date
		}
	}
}

// weekdayDates yields start itself first, then walks forward a day at a time
// and yields the days whose weekday is selected. Weeks run Sunday to Saturday
// and are counted from the week containing start; only every everyWeeks-th
// week is used.
func weekdayDates(
	start time.Time,
	days []time.Weekday,
	everyWeeks int,
) func() time.Time {
	var selected [7]bool
	for _, day := range days {
		selected[day] = true
	}

	weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	current := start
	first := true

	return func() time.Time {
		if first {
			first = false
			return start
		}

		for {
			current = current.AddDate(0, 0, 1)

			week := daysBetween(weekStart, current) / 7 //nolint:mnd //days in a week
			if week%everyWeeks != 0 {
				// jump to the day before the next week in use
				nextWeek := (week/everyWeeks + 1) * everyWeeks
				current = weekStart.AddDate(0, 0, nextWeek*7-1) //nolint:mnd //days in a week
				continue
			}

			if selected[current.Weekday()] {
				return current
			}
		}
	}
}

// addMonthsClamped adds n calendar months to date, keeping its day of month
// unless the target month is shorter, in which case the last day is used.
func addMonthsClamped(date time.Time, n int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()

	return time.Date(
		first.Year(),
		first.Month(),
		min(date.Day(), lastDay),
		0,
		0,
		0,
		0,
		time.UTC,
	)
}

func daysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from).Hours() / 24) //nolint:mnd //hours in a day
}
