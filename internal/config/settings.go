package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Source locates a document, either on disk or behind an HTTP(S) URL.
// The password for User lives in the OS keyring.
type Source struct {
	Mode      string `toml:"mode"`
	LocalPath string `toml:"local_path"`
	WebURL    string `toml:"web_url"`
	WebUser   string `toml:"web_user"`
}

// Reminder configures the alarm attached to every generated event.
type Reminder struct {
	Enabled   bool   `toml:"enabled"`
	Value     int    `toml:"value"`
	Unit      string `toml:"unit"`
	Direction string `toml:"direction"`
}

// Settings is the content of the TOML settings file.
type Settings struct {
	Language   string `toml:"language"`
	ServerPort string `toml:"server_port"`
	RefreshMin int    `toml:"refresh_interval_min"`
	// WeekStart overrides the week numbering implied by Language.
	WeekStart string `toml:"week_start"`

	Rules    Source   `toml:"rules"`
	Contacts Source   `toml:"contacts"`
	Reminder Reminder `toml:"reminder"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Language:   DefaultLanguage,
		ServerPort: DefaultPort,
		RefreshMin: DefaultRefreshMin,
		Rules:      Source{Mode: SourceModeLocal},
		Reminder: Reminder{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// DefaultSettingsPath returns the settings file in the user config directory.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// Load reads the settings at path on top of DefaultSettings. A missing file
// is not an error.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info(MsgSettingsNone, LogKeyComponent, CompConfig, LogKeyFile, path)
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsDecode, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if err := ValidatePort(s.ServerPort); err != nil {
		return err
	}
	if s.RefreshMin < DisabledInterval {
		return errors.New(ErrIntervalNegative)
	}
	switch s.WeekStart {
	case "", WeekStartMonday, WeekStartSunday:
	default:
		return fmt.Errorf("%s: %q", ErrWeekStart, s.WeekStart)
	}
	if err := s.Rules.validate(); err != nil {
		return err
	}
	if s.Contacts.Mode != "" {
		if err := s.Contacts.validate(); err != nil {
			return err
		}
	}
	if s.Reminder.Enabled {
		switch s.Reminder.Unit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			return fmt.Errorf("%s: %q", ErrReminderUnit, s.Reminder.Unit)
		}
		switch s.Reminder.Direction {
		case DirBefore, DirAfter:
		default:
			return fmt.Errorf("%s: %q", ErrReminderDir, s.Reminder.Direction)
		}
	}
	return nil
}

func (src Source) validate() error {
	switch src.Mode {
	case SourceModeLocal, SourceModeWeb:
		return nil
	}
	return fmt.Errorf("%s: %q", ErrModeUnsupport, src.Mode)
}

// ValidatePort checks that port is a number in the TCP port range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// Trigger returns the ISO 8601 duration of the reminder alarm, or "" when
// reminders are disabled.
func (r Reminder) Trigger() string {
	if !r.Enabled {
		return ""
	}
	sign := ISOPeriodPrefix
	if r.Direction == DirBefore {
		sign = ISONegativePrefix
	}
	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, r.Value, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, r.Value, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, r.Value, ISODay)
	}
}
