package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-reldate/internal/config"
)

// decodeContacts reads every vCard with a usable BDAY. Malformed cards and
// dates are logged and skipped.
func decodeContacts(ctx context.Context, r io.Reader) ([]contact, error) {
	decoder := vcard.NewDecoder(r)
	var contacts []contact

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		contacts = append(contacts, contact{Name: name, BirthDate: birthDate, YearKnown: yearKnown})
	}
	return contacts, nil
}

// nextBirthday returns the first birthday on or after the day of now, at
// midnight in now's location. Feb 29 falls on Mar 1 in common years.
// The second result is false when the person is not born by then.
func nextBirthday(now time.Time, c contact) (time.Time, bool) {
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	candidate := time.Date(now.Year(), c.BirthDate.Month(), c.BirthDate.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, c.BirthDate.Month(), c.BirthDate.Day(), 0, 0, 0, 0, loc)
	}

	if c.YearKnown && candidate.Year() < c.BirthDate.Year() {
		return time.Time{}, false
	}
	return candidate, true
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, bool, error) {
	// Full dates (Year known)
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	// Safe leap year fallback
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
