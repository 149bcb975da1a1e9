package reldate

import (
	"time"

	"github.com/tartampluch/go-reldate/internal/config"
	"golang.org/x/text/language"
)

// WeekConvention fixes how weeks are numbered: the day a week starts on
// and how many days of the new year week 1 must contain.
type WeekConvention struct {
	FirstDay           time.Weekday
	MinDaysInFirstWeek int
}

var (
	// ISOWeek is ISO 8601 numbering, also used by most of Europe.
	ISOWeek = WeekConvention{FirstDay: time.Monday, MinDaysInFirstWeek: config.ISOMinDaysInFirstWeek}

	// USWeek starts weeks on Sunday with January 1st always in week 1.
	USWeek = WeekConvention{FirstDay: time.Sunday, MinDaysInFirstWeek: config.USMinDaysInFirstWeek}
)

// sundayRegions start the week on Sunday.
var sundayRegions = map[string]bool{
	"AG": true, "AS": true, "BD": true, "BR": true, "BS": true, "BT": true,
	"BW": true, "BZ": true, "CA": true, "CN": true, "CO": true, "DM": true,
	"DO": true, "ET": true, "GT": true, "GU": true, "HK": true, "HN": true,
	"ID": true, "IL": true, "IN": true, "JM": true, "JP": true, "KE": true,
	"KH": true, "KR": true, "LA": true, "MH": true, "MM": true, "MO": true,
	"MT": true, "MX": true, "MZ": true, "NI": true, "NP": true, "PA": true,
	"PE": true, "PH": true, "PK": true, "PR": true, "PY": true, "SA": true,
	"SG": true, "SV": true, "TH": true, "TT": true, "TW": true, "UM": true,
	"US": true, "VE": true, "VI": true, "WS": true, "YE": true, "ZA": true,
	"ZW": true,
}

// ConventionForLocale returns the week numbering used in the region of tag.
// Languages without an explicit region use their most likely one, so "en"
// maps to USWeek and "nl" to ISOWeek.
func ConventionForLocale(tag language.Tag) WeekConvention {
	region, _ := tag.Region()
	if sundayRegions[region.String()] {
		return USWeek
	}
	return ISOWeek
}

// ConventionForWeekStart returns the convention named by a week start
// setting, "monday" or "sunday". ok is false for any other value.
func ConventionForWeekStart(weekStart string) (conv WeekConvention, ok bool) {
	switch weekStart {
	case config.WeekStartMonday:
		return ISOWeek, true
	case config.WeekStartSunday:
		return USWeek, true
	}
	return WeekConvention{}, false
}

// normalized clamps MinDaysInFirstWeek into 1..7 and FirstDay into a
// weekday so that a zero WeekConvention still numbers weeks.
func (wc WeekConvention) normalized() WeekConvention {
	if wc.MinDaysInFirstWeek < 1 {
		wc.MinDaysInFirstWeek = 1
	}
	if wc.MinDaysInFirstWeek > config.DaysPerWeek {
		wc.MinDaysInFirstWeek = config.DaysPerWeek
	}
	wc.FirstDay = time.Weekday((int(wc.FirstDay)%config.DaysPerWeek + config.DaysPerWeek) % config.DaysPerWeek)
	return wc
}

// dayIndex is the number of days wd lies after the first day of the week.
func (wc WeekConvention) dayIndex(wd time.Weekday) int {
	return (int(wd) - int(wc.FirstDay) + config.DaysPerWeek) % config.DaysPerWeek
}
