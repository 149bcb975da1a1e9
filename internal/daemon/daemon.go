// Package daemon runs the feed service headless: settings, periodic sync
// and the HTTP server.
package daemon

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/engine"
	"github.com/tartampluch/go-reldate/internal/i18n"
	"github.com/tartampluch/go-reldate/internal/reldate"
	"github.com/tartampluch/go-reldate/internal/server"
)

// Daemon owns the settings, the last sync result and the server.
type Daemon struct {
	SettingsPath string
	Fetcher      engine.Fetcher
	Clock        reldate.Clock
	Server       *server.CalendarServer

	reload chan struct{}

	mu          sync.RWMutex
	settings    config.Settings
	translator  *i18n.Translator
	occurrences []engine.Occurrence
	status      string
}

// New loads the settings at path and prepares the server.
func New(path string, fetcher engine.Fetcher) (*Daemon, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	tr := i18n.NewTranslator(settings.Language)
	d := &Daemon{
		SettingsPath: path,
		Fetcher:      fetcher,
		Clock:        reldate.RealClock{},
		reload:       make(chan struct{}, config.ChannelBufferSize),
		settings:     settings,
		translator:   tr,
	}
	d.Server = server.NewCalendarServer(settings.ServerPort, tr, settings.WeekStart)
	return d, nil
}

// Convention returns the week numbering of settings: the explicit week
// start if set, else the one customary for the language.
func Convention(s config.Settings, tr *i18n.Translator) reldate.WeekConvention {
	if conv, ok := reldate.ConventionForWeekStart(s.WeekStart); ok {
		return conv
	}
	return tr.Convention()
}

// Settings returns the settings in effect.
func (d *Daemon) Settings() config.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// Occurrences returns the result of the last successful sync.
func (d *Daemon) Occurrences() []engine.Occurrence {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.occurrences)
}

// Status describes the last sync in the configured language.
func (d *Daemon) Status() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Reload re-reads the settings file and asks the worker to apply the new
// refresh interval. The server port is only read at startup.
func (d *Daemon) Reload() error {
	settings, err := config.Load(d.SettingsPath)
	if err != nil {
		return err
	}
	tr := i18n.NewTranslator(settings.Language)

	d.mu.Lock()
	d.settings = settings
	d.translator = tr
	d.mu.Unlock()

	d.Server.SetDefaults(tr, settings.WeekStart)

	select {
	case d.reload <- struct{}{}:
	default:
	}
	return nil
}

// Run serves the feed and keeps it fresh until ctx is cancelled. A server
// that cannot start ends Run with its error.
func (d *Daemon) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	d.Server.Clock = d.Clock
	serverErr := make(chan error, config.ChannelBufferSize)
	go func() {
		if err := d.Server.Start(ctx); err != nil {
			serverErr <- err
		}
	}()

	_, _ = d.Sync(ctx)

	currentDuration := d.interval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil

		case err := <-serverErr:
			slog.Error(config.ErrServerStartup,
				config.LogKeyComponent, config.CompDaemon,
				config.LogKeyPort, d.Server.Port,
				config.LogKeyError, err)
			return err

		case <-d.reload:
			newDuration := d.interval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				ticker.Reset(currentDuration)
			}
			_, _ = d.Sync(ctx)

		case <-ticker.C:
			_, _ = d.Sync(ctx)
		}
	}
}

// Sync runs the engine once, publishes the feed and returns it.
func (d *Daemon) Sync(ctx context.Context) ([]byte, error) {
	d.mu.RLock()
	settings, tr := d.settings, d.translator
	d.mu.RUnlock()

	slog.Info(config.MsgSyncReq, config.LogKeyComponent, config.CompDaemon)

	gen := &engine.Generator{
		Clock:         d.Clock,
		Fetcher:       d.Fetcher,
		Convention:    Convention(settings, tr),
		FormatSummary: tr.SummaryFormatter(),
	}

	icsData, occurrences, countToday, err := gen.RunSync(ctx, SyncConfig(settings))
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompDaemon,
			config.LogKeyError, err)
		return nil, err
	}

	d.mu.Lock()
	d.occurrences = occurrences
	d.status = tr.FeedStatus(countToday)
	d.mu.Unlock()

	d.Server.Update(icsData)
	return icsData, nil
}

func (d *Daemon) interval() time.Duration {
	val := d.Settings().RefreshMin
	if val <= config.DisabledInterval {
		val = config.DefaultRefreshMin
	}
	return time.Duration(val) * time.Minute
}

// SyncConfig assembles the engine configuration from settings and the keyring.
func SyncConfig(s config.Settings) engine.SyncConfig {
	return engine.SyncConfig{
		Rules:           engine.Source{Source: s.Rules, WebPass: Password(s.Rules.WebUser)},
		Contacts:        engine.Source{Source: s.Contacts, WebPass: Password(s.Contacts.WebUser)},
		ReminderTrigger: s.Reminder.Trigger(),
	}
}
