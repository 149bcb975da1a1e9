package reldate

import (
	"time"

	"github.com/tartampluch/go-reldate/internal/config"
)

// Apply resolves a validated Description against ref. The fields are
// applied in the order year, month, week, day: week numbering depends on
// the resolved year, "last" depends on the resolved month, and the day
// field means day-of-week only when week is in play.
func Apply(ref time.Time, d Description, conv WeekConvention) time.Time {
	cal := NewCalendar(ref, conv)
	applyYear(cal, d)
	applyMonth(cal, d)
	applyWeek(cal, d)
	applyDay(cal, d)
	return cal.Time()
}

// applyYear switches to week-year numbering when an absolute week follows.
func applyYear(cal *Calendar, d Description) {
	year := d.Year
	switch {
	case d.Week.Absolute():
		weekYear := year.Value
		if year.Relative {
			weekYear += cal.WeekYear()
		}
		cal.SetWeekYear(weekYear)
	case year.Relative:
		cal.AddYears(year.Value)
	default:
		cal.SetYear(year.Value)
	}
}

func applyMonth(cal *Calendar, d Description) {
	month := d.Month
	if !month.Valid {
		return
	}
	if month.Relative {
		cal.AddMonths(month.Value)
		return
	}
	cal.SetMonth(month.Value - 1)
}

// applyWeek realises a week offset as a day count.
func applyWeek(cal *Calendar, d Description) {
	week := d.Week
	if !week.Valid {
		return
	}
	if week.Relative {
		cal.AddDays(week.Value * config.DaysPerWeek)
		return
	}
	cal.SetWeek(week.Value)
}

func applyDay(cal *Calendar, d Description) {
	day := d.Day
	switch {
	case day.Last:
		cal.EndOfMonth()
	case day.Relative:
		cal.AddDays(day.Value)
	case d.Week.Valid:
		cal.SetWeekday(day.Value)
	default:
		cal.SetDate(day.Value)
	}
}
