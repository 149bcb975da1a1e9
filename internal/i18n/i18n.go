// Package i18n localizes messages, event summaries and week numbering.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/reldate"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// errorKeys maps resolution errors to their message ids.
var errorKeys = []struct {
	err error
	key string
}{
	{reldate.ErrInvalidInputKind, config.TKeyErrInputKind},
	{reldate.ErrInvalidYear, config.TKeyErrYear},
	{reldate.ErrInvalidDay, config.TKeyErrDay},
	{reldate.ErrInvalidMonthOrWeek, config.TKeyErrMonthOrWeek},
	{reldate.ErrConflictingMonthAndWeek, config.TKeyErrConflict},
	{reldate.ErrUnsupportedLastDayOfWeek, config.TKeyErrLastOfWeek},
}

// Translator holds the translation bundle and the active language.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	tag       language.Tag

	// Languages lists the language codes found in the embedded locales.
	Languages []string
}

// NewTranslator loads the embedded locales and selects lang.
func NewTranslator(lang string) *Translator {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		tr.Languages = append(tr.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	tr.SetLanguage(lang)
	return tr
}

// SetLanguage switches the active language. An unparsable tag selects the
// default language.
func (tr *Translator) SetLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.MustParse(config.DefaultLanguage)
	}
	tr.tag = tag
	tr.localizer = goi18n.NewLocalizer(tr.bundle, tag.String(), config.DefaultLanguage)
}

// WithLanguage returns a copy of tr speaking lang. The copy shares the
// bundle, so it is cheap enough to build per request.
func (tr *Translator) WithLanguage(lang string) *Translator {
	c := *tr
	c.SetLanguage(lang)
	return &c
}

// Language returns the active language tag.
func (tr *Translator) Language() language.Tag {
	return tr.tag
}

// Convention returns the week numbering customary for the active language.
func (tr *Translator) Convention() reldate.WeekConvention {
	return reldate.ConventionForLocale(tr.tag)
}

// Msg translates key, returning key itself when no translation exists.
func (tr *Translator) Msg(key string) string {
	return tr.localize(key, &goi18n.LocalizeConfig{MessageID: key})
}

// Error returns the localized message for a resolution error, or the
// error text for any other error.
func (tr *Translator) Error(err error) string {
	for _, ek := range errorKeys {
		if errors.Is(err, ek.err) {
			if msg := tr.Msg(ek.key); msg != ek.key {
				return msg
			}
			break
		}
	}
	return err.Error()
}

// Resolved formats a resolved date for display.
func (tr *Translator) Resolved(date time.Time) string {
	formatted := date.Format(config.DateFormatFullDash)
	msg := tr.localize(config.TKeyResolved, &goi18n.LocalizeConfig{
		MessageID:    config.TKeyResolved,
		TemplateData: map[string]interface{}{"Date": formatted},
	})
	if msg == config.TKeyResolved {
		return formatted
	}
	return msg
}

// FeedStatus describes how many occurrences fall on today.
func (tr *Translator) FeedStatus(count int) string {
	if count == 0 {
		if msg := tr.Msg(config.TKeyFeedStatusZero); msg != config.TKeyFeedStatusZero {
			return msg
		}
		return fmt.Sprintf(config.FallbackFeedDefault, 0)
	}
	msg := tr.localize(config.TKeyFeedStatus, &goi18n.LocalizeConfig{
		MessageID:    config.TKeyFeedStatus,
		TemplateData: map[string]interface{}{"Count": count},
		PluralCount:  count,
	})
	if msg == config.TKeyFeedStatus {
		return fmt.Sprintf(config.FallbackFeedDefault, count)
	}
	return msg
}

// SummaryFormatter returns a closure that localizes event summaries.
// contact is empty for rules that are not anchored to a birthday.
func (tr *Translator) SummaryFormatter() func(name, contact string) string {
	return func(name, contact string) string {
		key := config.TKeyEvtSummary
		data := map[string]interface{}{"Name": name}
		if contact != "" {
			key = config.TKeyEvtSummaryBirthday
			data["Contact"] = contact
		}

		msg := tr.localize(key, &goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
		if msg == key || msg == "" {
			if contact != "" {
				return fmt.Sprintf(config.FallbackSummaryBirthday, name, contact)
			}
			return fmt.Sprintf(config.FallbackSummary, name)
		}
		return msg
	}
}

func (tr *Translator) localize(key string, lc *goi18n.LocalizeConfig) string {
	if tr.localizer == nil {
		return key
	}
	msg, err := tr.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
