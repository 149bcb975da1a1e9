// Package engine turns rule files and contact birthdays into an iCalendar
// feed of resolved dates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"time"

	"cloudeng.io/datetime"
	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/reldate"
	"github.com/tartampluch/go-reldate/internal/rules"
)

// Source locates a document and carries the password of its web user.
type Source struct {
	config.Source
	WebPass string
}

// SyncConfig contains all parameters required to perform a synchronization.
type SyncConfig struct {
	Rules    Source
	Contacts Source // Only read when a rule is anchored to birthdays
	// ReminderTrigger is an ISO 8601 duration (e.g. "-P1D"), empty for no alarm.
	ReminderTrigger string
}

// Generator resolves rules and renders the feed.
type Generator struct {
	Clock      reldate.Clock
	Fetcher    Fetcher
	Convention reldate.WeekConvention // Zero value means reldate.ISOWeek

	// FormatSummary localizes event summaries. contact is empty for rules
	// without a birthday anchor.
	FormatSummary func(name, contact string) string
}

// RunSync reads the rules (and contacts when needed), resolves them and
// encodes the feed. It returns the ICS data, the occurrences sorted by
// date, the count of occurrences falling today, and any error.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []Occurrence, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Rules.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	if cfg.ReminderTrigger != "" {
		if _, err := datetime.ParseISO8601Period(cfg.ReminderTrigger); err != nil {
			return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrReminderTrigger, err)
		}
	}

	set, err := g.loadRules(ctx, cfg.Rules)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}
		return nil, nil, 0, err
	}

	var contacts []contact
	if set.HasBirthdayRules() {
		if contacts, err = g.loadContacts(ctx, cfg.Contacts); err != nil {
			if ctx.Err() != nil {
				return nil, nil, 0, ctx.Err()
			}
			return nil, nil, 0, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	now := g.now()
	occurrences := g.resolve(now, set, contacts)

	ics, today, err := g.encodeFeed(now, occurrences, cfg.ReminderTrigger)
	if err != nil {
		return nil, nil, 0, err
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRules, len(set.Rules)),
			slog.Int(config.LogKeyContacts, len(contacts)),
			slog.Int(config.LogKeyEvents, len(occurrences)),
			slog.Int(config.LogKeyToday, today),
		),
	)
	log.Debug("Sync finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	return ics, occurrences, today, nil
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return reldate.RealClock{}.Now()
	}
	return g.Clock.Now()
}

func (g *Generator) loadRules(ctx context.Context, src Source) (rules.Set, error) {
	doc, err := g.acquireStream(ctx, src, config.AcceptRules)
	if err != nil {
		return rules.Set{}, fmt.Errorf("%s: %w", config.ErrRulesSource, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = doc.Close() }()

	format, err := ruleFormat(src, doc.ContentType)
	if err != nil {
		return rules.Set{}, err
	}
	return rules.Parse(doc, format)
}

func (g *Generator) loadContacts(ctx context.Context, src Source) ([]contact, error) {
	if src.Mode == "" {
		return nil, errors.New(config.ErrContactsSource)
	}
	doc, err := g.acquireStream(ctx, src, config.AcceptVCard)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = doc.Close() }()

	return decodeContacts(ctx, doc)
}

// ruleFormat picks the rule format from the file extension. Web sources
// without a recognised extension use the served media type, else YAML.
func ruleFormat(src Source, mediaType string) (string, error) {
	if src.Mode != config.SourceModeWeb {
		return rules.FormatFromPath(src.LocalPath)
	}
	u, err := url.Parse(src.WebURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if format, err := rules.FormatFromPath(u.Path); err == nil {
		return format, nil
	}
	if format, ok := rules.FormatFromMediaType(mediaType); ok {
		return format, nil
	}
	return config.FormatYAML, nil
}

// acquireStream opens the appropriate data source based on configuration.
// accept lists the media types asked of web sources.
func (g *Generator) acquireStream(ctx context.Context, src Source, accept string) (*Document, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		f, err := os.Open(src.LocalPath)
		if err != nil {
			return nil, err
		}
		return &Document{ReadCloser: f}, nil
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, Request{
			URL:    src.WebURL,
			User:   src.WebUser,
			Pass:   src.WebPass,
			Accept: accept,
		})
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// resolve applies every rule. Plain rules are resolved against now,
// birthday rules against the next birthday of every contact.
func (g *Generator) resolve(now time.Time, set rules.Set, contacts []contact) []Occurrence {
	conv := g.Convention
	if conv == (reldate.WeekConvention{}) {
		conv = reldate.ISOWeek
	}
	resolver := reldate.NewResolver(
		reldate.WithClock(g.Clock),
		reldate.WithWeekConvention(conv),
	)

	var out []Occurrence
	add := func(rule rules.Rule, who string, ref time.Time) {
		date, err := resolver.ResolveFrom(ref, rule.When.Value)
		if err != nil {
			slog.Warn(config.MsgSkippedRule,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyRule, rule.Name,
				config.LogKeyName, who,
				config.LogKeyError, err)
			return
		}
		slog.Debug(config.MsgResolved,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyRule, rule.Name,
			config.LogKeyRef, ref.Format(config.DateFormatFullDash),
			config.LogKeyDate, date.Format(config.DateFormatFullDash))
		out = append(out, Occurrence{
			UID:       occurrenceUID(rule.Name, who, date),
			Rule:      rule.Name,
			Contact:   who,
			Reference: ref,
			Date:      date,
		})
	}

	for _, rule := range set.Rules {
		if !rule.Birthday() {
			add(rule, "", now)
			continue
		}
		for _, c := range contacts {
			next, ok := nextBirthday(now, c)
			if !ok {
				continue
			}
			add(rule, c.Name, next)
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
