package reldate

import (
	"time"

	"cloudeng.io/datetime"
	"github.com/tartampluch/go-reldate/internal/config"
)

// Calendar is a mutable working date. Every operation keeps the clock time
// and location of the date it started from.
//
// Month arithmetic clamps the day of the month: January 31st plus one month
// is the last day of February. Setting the day of the month rolls over
// instead: day 31 in a 30-day month is the 1st of the next month.
type Calendar struct {
	t    time.Time
	conv WeekConvention
}

// NewCalendar returns a Calendar positioned at t that numbers weeks with conv.
func NewCalendar(t time.Time, conv WeekConvention) *Calendar {
	return &Calendar{t: t, conv: conv.normalized()}
}

// Time returns the current working date.
func (c *Calendar) Time() time.Time {
	return c.t
}

// Year returns the calendar year.
func (c *Calendar) Year() int {
	return c.t.Year()
}

// Month returns the month, 0 for January.
func (c *Calendar) Month() int {
	return int(c.t.Month()) - 1
}

// Date returns the day of the month.
func (c *Calendar) Date() int {
	return c.t.Day()
}

// Weekday returns the day of the week, 1 for the first day of a week under
// the calendar's convention up to 7 for the last.
func (c *Calendar) Weekday() int {
	return c.conv.dayIndex(c.t.Weekday()) + 1
}

// WeekYear returns the year the current week belongs to, which differs from
// the calendar year for days near the turn of the year.
func (c *Calendar) WeekYear() int {
	day := c.civil()
	y := day.Year()
	if !day.Before(c.weekOneStart(y + 1)) {
		return y + 1
	}
	if day.Before(c.weekOneStart(y)) {
		return y - 1
	}
	return y
}

// Week returns the week number within WeekYear, starting at 1.
func (c *Calendar) Week() int {
	return daysBetween(c.weekOneStart(c.WeekYear()), c.civil())/config.DaysPerWeek + 1
}

// WeeksInYear returns the number of weeks in weekYear.
func (c *Calendar) WeeksInYear(weekYear int) int {
	return daysBetween(c.weekOneStart(weekYear), c.weekOneStart(weekYear+1)) / config.DaysPerWeek
}

// SetYear sets the calendar year, clamping February 29th to the 28th.
func (c *Calendar) SetYear(year int) {
	_, m, d := c.t.Date()
	c.setClamped(year, int(m), d)
}

// SetMonth sets the month, 0 for January. Values outside 0..11 move into
// the adjacent years. The day of the month is clamped.
func (c *Calendar) SetMonth(month int) {
	y, _, d := c.t.Date()
	c.setClamped(y, month+1, d)
}

// SetDate sets the day of the month, rolling over into adjacent months.
func (c *Calendar) SetDate(day int) {
	y, m, _ := c.t.Date()
	c.set(y, m, day)
}

// SetWeekYear moves to the same week number and weekday in weekYear. The
// week is clamped to the weeks weekYear has.
func (c *Calendar) SetWeekYear(weekYear int) {
	week := min(c.Week(), c.WeeksInYear(weekYear))
	offset := (week-1)*config.DaysPerWeek + c.Weekday() - 1
	start := c.weekOneStart(weekYear)
	c.set(start.Year(), start.Month(), start.Day()+offset)
}

// SetWeek moves to week number week of the current week-year, keeping the
// weekday.
func (c *Calendar) SetWeek(week int) {
	c.AddDays((week - c.Week()) * config.DaysPerWeek)
}

// SetWeekday moves to day (1..7, see Weekday) of the current week. Values
// outside 1..7 move into the adjacent weeks.
func (c *Calendar) SetWeekday(day int) {
	c.AddDays(day - c.Weekday())
}

// AddYears adds n years, clamping February 29th.
func (c *Calendar) AddYears(n int) {
	c.AddMonths(n * 12)
}

// AddMonths adds n months, clamping the day of the month.
func (c *Calendar) AddMonths(n int) {
	y, m, d := c.t.Date()
	c.setClamped(y, int(m)+n, d)
}

// AddDays adds n calendar days. The clock time is kept across daylight
// saving transitions.
func (c *Calendar) AddDays(n int) {
	y, m, d := c.t.Date()
	c.set(y, m, d+n)
}

// EndOfMonth moves to the last day of the current month.
func (c *Calendar) EndOfMonth() {
	y, m, _ := c.t.Date()
	c.set(y, m, daysInMonth(y, m))
}

// set moves to the given date at the same clock time. Staying on the
// current date keeps the instant, so an ambiguous wall time during a
// daylight saving fall-back does not switch offsets.
func (c *Calendar) set(year int, month time.Month, day int) {
	target := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if y, m, d := c.t.Date(); target.Equal(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return
	}
	hour, minute, sec := c.t.Clock()
	c.t = time.Date(year, month, day, hour, minute, sec, c.t.Nanosecond(), c.t.Location())
}

// setClamped sets year and a 1-based month that may lie outside 1..12,
// clamping day to the length of the resulting month.
func (c *Calendar) setClamped(year, month, day int) {
	months := year*12 + month - 1
	year, month = floorDiv(months, 12), months-floorDiv(months, 12)*12+1
	day = min(day, daysInMonth(year, time.Month(month)))
	c.set(year, time.Month(month), day)
}

func daysInMonth(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// civil returns the current date at midnight UTC, so that day differences
// are exact multiples of 24 hours.
func (c *Calendar) civil() time.Time {
	y, m, d := c.t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekOneStart returns the first day of week 1 of weekYear at midnight UTC.
// Week 1 is the first week holding at least MinDaysInFirstWeek days of
// January.
func (c *Calendar) weekOneStart(weekYear int) time.Time {
	jan1 := time.Date(weekYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := c.conv.dayIndex(jan1.Weekday())
	start := 1 - offset
	if config.DaysPerWeek-offset < c.conv.MinDaysInFirstWeek {
		start += config.DaysPerWeek
	}
	return time.Date(weekYear, time.January, start, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
