package dtos

import (
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/xdoubleu/essentia/v2/pkg/validate"
	"swimschool.app/apps/calendar/pkg/recurrence"
)

type EndType string

const (
	EndNever EndType = "never"
	EndCount EndType = "count"
	EndDate  EndType = "date"
)

// CreateSessionsDto is the schedule form. When RRule is set it replaces the
// frequency, interval, days and end fields.
type CreateSessionsDto struct {
	Frequency       string  `schema:"frequency"`
	Interval        int     `schema:"interval"`
	DaysOfWeek      []int   `schema:"daysOfWeek"`
	EndType         EndType `schema:"endType"`
	EndCount        int     `schema:"endCount"`
	EndDate         string  `schema:"endDate"`
	RRule           string  `schema:"rrule"`
	StartDate       string  `schema:"startDate"`
	TimeOfDay       string  `schema:"timeOfDay"`
	DurationMinutes int     `schema:"durationMinutes"`
	Capacity        int     `schema:"capacity"`
	Notes           string  `schema:"notes"`
}

func (dto *CreateSessionsDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "startDate", dto.StartDate, validate.IsNotEmpty)
	validate.Check(v, "durationMinutes", dto.DurationMinutes, validate.IsGreaterThan(0))
	validate.Check(v, "capacity", dto.Capacity, validate.IsGreaterThan(0))

	if strings.TrimSpace(dto.RRule) == "" {
		validate.Check(
			v,
			"frequency",
			recurrence.Frequency(dto.Frequency),
			validate.IsInSlice(recurrence.Frequencies),
		)
		validate.Check(
			v,
			"endType",
			dto.EndType,
			validate.IsInSlice([]EndType{EndNever, EndCount, EndDate}),
		)
	}

	return v.Valid(), v.Errors()
}

// Rule builds the recurrence rule the form describes. Range checks are left
// to the expander so their messages stay in one place.
func (dto *CreateSessionsDto) Rule() (recurrence.Rule, error) {
	if value := strings.TrimSpace(dto.RRule); value != "" {
		return recurrence.ParseRRule(value)
	}

	frequency, err := recurrence.ParseFrequency(dto.Frequency)
	if err != nil {
		return recurrence.Rule{}, err
	}

	days := make([]time.Weekday, 0, len(dto.DaysOfWeek))
	for _, day := range dto.DaysOfWeek {
		days = append(days, time.Weekday(day))
	}

	rule := recurrence.Rule{
		Frequency:  frequency,
		Interval:   dto.Interval,
		DaysOfWeek: days,
		End:        recurrence.Never(),
	}

	switch dto.EndType {
	case EndCount:
		rule.End = recurrence.AfterCount(dto.EndCount)
	case EndDate:
		var endDate time.Time
		endDate, err = parseDate("end", dto.EndDate)
		if err != nil {
			return recurrence.Rule{}, err
		}
		rule.End = recurrence.OnDate(endDate)
	case EndNever:
	}

	return rule, nil
}

// Anchor builds the anchor in location; an empty time of day means all-day.
func (dto *CreateSessionsDto) Anchor(location *time.Location) (recurrence.Anchor, error) {
	startDate, err := parseDate("startDate", dto.StartDate)
	if err != nil {
		return recurrence.Anchor{}, err
	}

	timeOfDay := mo.None[recurrence.TimeOfDay]()
	if strings.TrimSpace(dto.TimeOfDay) != "" {
		var tod recurrence.TimeOfDay
		tod, err = recurrence.ParseTimeOfDay(dto.TimeOfDay)
		if err != nil {
			return recurrence.Anchor{}, err
		}
		timeOfDay = mo.Some(tod)
	}

	return recurrence.Anchor{
		StartDate: startDate,
		TimeOfDay: timeOfDay,
		Location:  location,
	}, nil
}

func parseDate(field string, value string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &recurrence.RuleError{
			Field:   field,
			Message: "date must be formatted as YYYY-MM-DD",
			Err:     recurrence.ErrInvalidRule,
		}
	}
	return date, nil
}
