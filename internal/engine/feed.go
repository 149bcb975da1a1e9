package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-reldate/internal/config"
)

// encodeFeed renders one all-day event per occurrence and counts the
// occurrences falling on the day of now.
func (g *Generator) encodeFeed(now time.Time, occurrences []Occurrence, reminderTrigger string) ([]byte, int, error) {
	if len(occurrences) == 0 {
		// A valid empty VCALENDAR keeps clients from flagging the feed as invalid.
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), 0, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Dates are compared in local time, only DTSTAMP is UTC.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	todayYear, todayMonth, todayDay := now.Date()
	today := 0

	for _, occ := range occurrences {
		summary := fmt.Sprintf(config.FallbackSummary, occ.Rule)
		if occ.Contact != "" {
			summary = fmt.Sprintf(config.FallbackSummaryBirthday, occ.Rule, occ.Contact)
		}
		if g.FormatSummary != nil {
			summary = g.FormatSummary(occ.Rule, occ.Contact)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, occ.UID)
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropCategories, occ.Rule)
		event.Props.Set(dtStampProp)

		y, m, d := occ.Date.Date()
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		if y == todayYear && m == todayMonth && d == todayDay {
			today++
			slog.Info(config.MsgOccurToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyRule, occ.Rule,
				config.LogKeyName, occ.Contact)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), today, nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// occurrenceUID derives the event UID from the rule, the contact and the
// resolved date, so that refreshes do not duplicate events.
func occurrenceUID(rule, contact string, date time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, rule, contact, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), date.Format(config.DateFormatFullBasic), config.ICalDomain)
}
