package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/daemon"
	"github.com/zalando/go-keyring"
)

func newTestCLI(t *testing.T, settings string) (*cli, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.SettingsFileName)
	if settings != "" {
		require.NoError(t, os.WriteFile(path, []byte(settings), config.FilePermUserRW))
	}
	var stdout bytes.Buffer
	return &cli{
		settingsPath: path,
		stdin:        strings.NewReader(""),
		stdout:       &stdout,
		stderr:       &bytes.Buffer{},
		now:          func() time.Time { return time.Date(1984, 1, 31, 12, 0, 0, 0, time.Local) },
	}, &stdout
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		args     []string
		want     string
	}{
		{"Positional with absent week", "", []string{"0", "+1", "1", "-"}, "1984-02-01"},
		{"Three slots", "", []string{"0", "0", "last"}, "1984-01-31"},
		{"Explicit reference", "", []string{"-ref", "2023-03-31", "0", "-1", "0"}, "2023-02-28"},
		{"JSON array", "", []string{"-lang", "nl", "-json", `[2000, null, 1, 1]`}, "2000-01-03"},
		{"JSON object", "", []string{"-json", `{"year": 0, "month": "+1", "day": "last"}`}, "1984-02-29"},
		{"English defaults to US weeks", "", []string{"-json", `[2000, null, 1, 1]`}, "1999-12-26"},
		{"Settings week start", "week_start = \"monday\"\n", []string{"2000", "-", "1", "1"}, "2000-01-03"},
		{"Negative first slot after --", "", []string{"--", "-1", "0", "0"}, "1983-01-31"},
		{"Flags before --", "", []string{"-ref", "2023-03-31", "--", "-1", "-1", "0"}, "2022-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stdout := newTestCLI(t, tt.settings)
			require.NoError(t, c.run(context.Background(), append([]string{config.CmdResolve}, tt.args...)))
			assert.Equal(t, tt.want+"\n", stdout.String())
		})
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		isUsage bool
	}{
		{"Too few slots", []string{"0", "1"}, config.ErrUsage, true},
		{"JSON and slots", []string{"-json", "[0,0,0,null]", "0"}, config.ErrUsage, true},
		{"Unknown flag", []string{"-nope"}, "flag provided but not defined", true},
		{"Negative first slot without --", []string{"-1", "0", "0"}, "flag provided but not defined: -1", true},
		{"Invalid year", []string{"-", "1", "1"}, "Invalid year", false},
		{"Conflict", []string{"0", "1", "1", "1"}, "Invalid input: month and week cannot be combined", false},
		{"Localized", []string{"-lang", "nl", "0", "1", "1", "1"}, "Ongeldige invoer: maand en week kunnen niet gecombineerd worden", false},
		{"Last and week", []string{"0", "-", "last", "1"}, "Invalid day: \"last\" only works together with a month", false},
		{"Wrong JSON shape", []string{"-json", `"tomorrow"`}, "Invalid input", false},
		{"Bad reference", []string{"-ref", "yesterday", "0", "0", "0"}, "Invalid reference date", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stdout := newTestCLI(t, "")
			err := c.run(context.Background(), append([]string{config.CmdResolve}, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, tt.isUsage, isUsage(err))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_Usage(t *testing.T) {
	c, _ := newTestCLI(t, "")

	err := c.run(context.Background(), nil)
	assert.True(t, isUsage(err))

	err = c.run(context.Background(), []string{"frobnicate"})
	assert.True(t, isUsage(err))
	assert.Contains(t, err.Error(), config.ErrUnknownCommand)

	err = c.run(context.Background(), []string{config.CmdPassword})
	assert.True(t, isUsage(err))

	assert.Contains(t, config.MsgUsage, "resolve -- -1 0 0", "Usage explains negative first values")
}

func TestFeedCommand(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("rules:\n  - name: Rent due\n    when: [0, +1, 1]\n"), config.FilePermUserRW))

	c, stdout := newTestCLI(t, "[rules]\nmode = \"local\"\nlocal_path = "+`"`+filepath.ToSlash(rulesPath)+`"`+"\n")
	require.NoError(t, c.run(context.Background(), []string{config.CmdFeed}))
	assert.Contains(t, stdout.String(), "DTSTART;VALUE=DATE:19840201")
	assert.Contains(t, stdout.String(), "SUMMARY:Rent due")

	out := filepath.Join(dir, "feed.ics")
	stdout.Reset()
	require.NoError(t, c.run(context.Background(), []string{config.CmdFeed, "-o", out}))
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
}

func TestPasswordCommand(t *testing.T) {
	keyring.MockInit()

	c, _ := newTestCLI(t, "")
	c.stdin = strings.NewReader("hunter2\n")
	require.NoError(t, c.run(context.Background(), []string{config.CmdPassword, "alice"}))
	assert.Equal(t, "hunter2", daemon.Password("alice"))

	c.stdin = strings.NewReader("\n")
	assert.Error(t, c.run(context.Background(), []string{config.CmdPassword, "alice"}))
}
