// Package recurrence expands a recurrence rule anchored on a start date into
// the concrete occurrences that get materialized as session rows.
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

type Frequency string

const (
	None           Frequency = "none"
	Daily          Frequency = "daily"
	Weekly         Frequency = "weekly"
	Biweekly       Frequency = "biweekly"
	Monthly        Frequency = "monthly"
	CustomInterval Frequency = "custom_interval"
	CustomWeekdays Frequency = "custom_weekdays"
)

//nolint:gochecknoglobals //ok
var Frequencies = []Frequency{
	None,
	Daily,
	Weekly,
	Biweekly,
	Monthly,
	CustomInterval,
	CustomWeekdays,
}

func ParseFrequency(value string) (Frequency, error) {
	for _, frequency := range Frequencies {
		if string(frequency) == value {
			return frequency, nil
		}
	}

	return "", invalid("frequency", fmt.Sprintf("unknown frequency %q", value))
}

// usesInterval reports whether Interval is a step count for this frequency.
func (frequency Frequency) usesInterval() bool {
	switch frequency {
	case Daily, Weekly, Monthly, CustomInterval:
		return true
	default:
		return false
	}
}

type EndKind int

const (
	EndNever      EndKind = iota
	EndAfterCount EndKind = iota
	EndOnDate     EndKind = iota
)

// EndCondition is a tagged variant; only the field matching Kind is read.
type EndCondition struct {
	Kind  EndKind
	Count int
	Date  time.Time
}

func Never() EndCondition {
	//nolint:exhaustruct //other fields are unused for this kind
	return EndCondition{Kind: EndNever}
}

func AfterCount(n int) EndCondition {
	//nolint:exhaustruct //other fields are unused for this kind
	return EndCondition{Kind: EndAfterCount, Count: n}
}

// OnDate ends the recurrence on the calendar date of d, inclusive.
func OnDate(d time.Time) EndCondition {
	//nolint:exhaustruct //other fields are unused for this kind
	return EndCondition{Kind: EndOnDate, Date: d}
}

type Rule struct {
	Frequency Frequency
	// Interval is in days, weeks or months depending on Frequency.
	Interval   int
	DaysOfWeek []time.Weekday
	End        EndCondition
}

// MaxInterval bounds Interval so every expanded date stays within a
// representable year.
const MaxInterval = 1000

// Validate checks the rule on its own, independent of any anchor.
func (rule Rule) Validate() error {
	if _, err := ParseFrequency(string(rule.Frequency)); err != nil {
		return err
	}

	if rule.Frequency == None {
		return nil
	}

	if rule.Frequency.usesInterval() && rule.Interval < 1 {
		return invalid("interval", "interval must be at least 1")
	}

	if rule.Frequency.usesInterval() && rule.Interval > MaxInterval {
		return invalid(
			"interval",
			fmt.Sprintf("interval must be at most %d", MaxInterval),
		)
	}

	for _, day := range rule.DaysOfWeek {
		if day < time.Sunday || day > time.Saturday {
			return invalid(
				"daysOfWeek",
				fmt.Sprintf("day of week %d is outside 0-6", day),
			)
		}
	}

	if rule.Frequency == CustomWeekdays && len(rule.DaysOfWeek) == 0 {
		return invalid("daysOfWeek", "at least one day of the week is required")
	}

	switch rule.End.Kind {
	case EndNever:
	case EndAfterCount:
		if rule.End.Count < 1 {
			return invalid("end", "occurrence count must be at least 1")
		}
	case EndOnDate:
		if rule.End.Date.IsZero() {
			return invalid("end", "end date is required")
		}
	default:
		return invalid("end", fmt.Sprintf("unknown end condition %d", rule.End.Kind))
	}

	return nil
}

func (rule Rule) weekdayMode() bool {
	return rule.Frequency == CustomWeekdays ||
		(rule.Frequency == Weekly && len(rule.DaysOfWeek) > 0)
}

// stepDays is the fixed day distance between occurrences of the
// frequencies that advance by a constant number of days.
func (rule Rule) stepDays() int {
	switch rule.Frequency {
	case Weekly:
		return 7 * rule.Interval //nolint:mnd //days in a week
	case Biweekly:
		return 14 //nolint:mnd //two weeks
	default:
		return rule.Interval
	}
}

type TimeOfDay struct {
	Hour   int
	Minute int
}

const timeOfDayLayout = "15:04"

func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, strings.TrimSpace(value))
	if err != nil {
		return TimeOfDay{}, invalid("timeOfDay", "time of day must be formatted as HH:MM")
	}

	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

func (tod TimeOfDay) valid() bool {
	//nolint:mnd //hours and minutes in a day
	return tod.Hour >= 0 && tod.Hour < 24 && tod.Minute >= 0 && tod.Minute < 60
}

type Anchor struct {
	// StartDate only contributes its calendar date.
	StartDate time.Time
	// TimeOfDay is applied to every occurrence; None means all-day.
	TimeOfDay mo.Option[TimeOfDay]
	// Location in which occurrences are materialized, UTC when nil.
	Location *time.Location
}

func (anchor Anchor) location() *time.Location {
	if anchor.Location == nil {
		return time.UTC
	}
	return anchor.Location
}

func (anchor Anchor) validate() error {
	if anchor.StartDate.IsZero() {
		return invalid("startDate", "start date is required")
	}

	if tod, ok := anchor.TimeOfDay.Get(); ok && !tod.valid() {
		return invalid("timeOfDay", "time of day is out of range")
	}

	return nil
}

// materialize turns a civil date into the occurrence for this anchor.
func (anchor Anchor) materialize(date time.Time) Occurrence {
	year, month, day := date.Date()

	tod, ok := anchor.TimeOfDay.Get()
	if !ok {
		return Occurrence{
			Start:  time.Date(year, month, day, 0, 0, 0, 0, anchor.location()),
			AllDay: true,
		}
	}

	return Occurrence{
		Start: time.Date(
			year,
			month,
			day,
			tod.Hour,
			tod.Minute,
			0,
			0,
			anchor.location(),
		),
		AllDay: false,
	}
}

type Occurrence struct {
	Start  time.Time `json:"start"`
	AllDay bool      `json:"allDay"`
}

func (occurrence Occurrence) String() string {
	if occurrence.AllDay {
		return occurrence.Start.Format(time.DateOnly)
	}
	return occurrence.Start.Format(time.DateOnly + " " + timeOfDayLayout)
}

func ParseWeekdays(values []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(values))
	for _, value := range values {
		day, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, invalid("daysOfWeek", fmt.Sprintf("%q is not a day of the week", value))
		}
		days = append(days, time.Weekday(day))
	}
	return days, nil
}

// civil strips time and location, keeping the calendar date as seen in
// the value's own location.
func civil(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
