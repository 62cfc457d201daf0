package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

//nolint:gochecknoglobals //lookup table indexed by time.Weekday
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU,
	rrule.MO,
	rrule.TU,
	rrule.WE,
	rrule.TH,
	rrule.FR,
	rrule.SA,
}

// shortestMonth is the highest day of month every month has.
const shortestMonth = 28

// ParseRRule maps an RFC 5545 RRULE onto a Rule. Only the subset a session
// series can express is accepted: DAILY, WEEKLY and MONTHLY with INTERVAL,
// plain BYDAY, COUNT and UNTIL. A MONTHLY rule may also carry the
// "BYMONTHDAY=<d>,-1;BYSETPOS=1" form RRule writes for late anchors; the day
// itself always comes from the anchor.
func ParseRRule(value string) (Rule, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "RRULE:")

	option, err := rrule.StrToROption(value)
	if err != nil {
		return Rule{}, invalid("rrule", err.Error())
	}

	clamped := isMonthEndClamp(option)
	if clamped {
		option.Bymonthday = nil
		option.Bysetpos = nil
	}

	if err = checkSupported(option); err != nil {
		return Rule{}, err
	}

	if clamped && option.Freq != rrule.MONTHLY {
		return Rule{}, invalid("rrule", "BYMONTHDAY is only supported for MONTHLY rules")
	}

	interval := max(option.Interval, 1)

	days := make([]time.Weekday, 0, len(option.Byweekday))
	for _, weekday := range option.Byweekday {
		// rrule counts from Monday = 0
		days = append(days, time.Weekday((weekday.Day()+1)%7)) //nolint:mnd //days in a week
	}

	//nolint:exhaustruct //fields are set below
	rule := Rule{
		Interval:   interval,
		DaysOfWeek: days,
		End:        Never(),
	}

	switch option.Freq {
	case rrule.DAILY:
		rule.Frequency = CustomInterval
		if interval == 1 {
			rule.Frequency = Daily
		}
		if len(days) > 0 {
			if interval != 1 {
				return Rule{}, invalid("rrule", "BYDAY with a daily INTERVAL is not supported")
			}
			rule.Frequency = CustomWeekdays
		}
	case rrule.WEEKLY:
		rule.Frequency = Weekly
	case rrule.MONTHLY:
		if len(days) > 0 {
			return Rule{}, invalid("rrule", "BYDAY is not supported for MONTHLY rules")
		}
		rule.Frequency = Monthly
	default:
		return Rule{}, invalid("rrule", fmt.Sprintf("unsupported FREQ %s", option.Freq))
	}

	switch {
	case option.Count > 0 && !option.Until.IsZero():
		return Rule{}, invalid("rrule", "COUNT and UNTIL cannot both be set")
	case option.Count > 0:
		rule.End = AfterCount(option.Count)
	case !option.Until.IsZero():
		rule.End = OnDate(option.Until)
	}

	return rule, rule.Validate()
}

// isMonthEndClamp matches BYMONTHDAY=<d>,-1;BYSETPOS=1 with d in 29-31: day d,
// or the last day of months too short for it.
func isMonthEndClamp(option *rrule.ROption) bool {
	if len(option.Bymonthday) != 2 || len(option.Bysetpos) != 1 {
		return false
	}

	day := option.Bymonthday[0]
	return day > shortestMonth && day <= 31 && //nolint:mnd //longest month
		option.Bymonthday[1] == -1 &&
		option.Bysetpos[0] == 1
}

func checkSupported(option *rrule.ROption) error {
	unsupported := map[string]int{
		"BYSETPOS":   len(option.Bysetpos),
		"BYMONTH":    len(option.Bymonth),
		"BYMONTHDAY": len(option.Bymonthday),
		"BYYEARDAY":  len(option.Byyearday),
		"BYWEEKNO":   len(option.Byweekno),
		"BYHOUR":     len(option.Byhour),
		"BYMINUTE":   len(option.Byminute),
		"BYSECOND":   len(option.Bysecond),
		"BYEASTER":   len(option.Byeaster),
	}
	for part, n := range unsupported {
		if n > 0 {
			return invalid("rrule", fmt.Sprintf("%s is not supported", part))
		}
	}

	for _, weekday := range option.Byweekday {
		if weekday.N() != 0 {
			return invalid("rrule", "BYDAY with an ordinal is not supported")
		}
	}

	return nil
}

// RRule renders the rule as an RRULE value (without the "RRULE:" prefix).
// Weeks start on Sunday, matching how Expand counts weekly intervals. Monthly
// rules anchored after the 28th get BYMONTHDAY=<d>,-1;BYSETPOS=1 so short
// months fall on their last day, as Expand does, instead of being skipped.
func (rule Rule) RRule(anchor Anchor) (string, error) {
	if err := rule.Validate(); err != nil {
		return "", err
	}

	if err := anchor.validate(); err != nil {
		return "", err
	}

	//nolint:exhaustruct //other fields are optional
	option := rrule.ROption{
		Interval: 1,
		Wkst:     rrule.SU,
	}

	switch rule.Frequency {
	case None:
		option.Freq = rrule.DAILY
		option.Count = 1
		return option.RRuleString(), nil
	case Daily, CustomInterval:
		option.Freq = rrule.DAILY
		option.Interval = rule.Interval
	case Weekly:
		option.Freq = rrule.WEEKLY
		option.Interval = rule.Interval
	case Biweekly:
		option.Freq = rrule.WEEKLY
		option.Interval = 2 //nolint:mnd //every other week
	case Monthly:
		option.Freq = rrule.MONTHLY
		option.Interval = rule.Interval
		if day := civil(anchor.StartDate).Day(); day > shortestMonth {
			option.Bymonthday = []int{day, -1}
			option.Bysetpos = []int{1}
		}
	case CustomWeekdays:
		option.Freq = rrule.WEEKLY
	}

	if rule.Frequency == Weekly || rule.Frequency == CustomWeekdays {
		for _, day := range rule.DaysOfWeek {
			option.Byweekday = append(option.Byweekday, rruleWeekdays[day])
		}
	}

	switch rule.End.Kind {
	case EndAfterCount:
		option.Count = rule.End.Count
	case EndOnDate:
		year, month, day := rule.End.Date.Date()
		// UNTIL is an instant, keep the whole end date inside it
		option.Until = time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
	case EndNever:
	}

	return option.RRuleString(), nil
}
