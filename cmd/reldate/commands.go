package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/daemon"
	"github.com/tartampluch/go-reldate/internal/engine"
	"github.com/tartampluch/go-reldate/internal/i18n"
	"github.com/tartampluch/go-reldate/internal/reldate"
)

// usageError marks errors caused by the command line itself.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u) || errors.Is(err, flag.ErrHelp)
}

// cli runs one command against a settings file.
type cli struct {
	settingsPath string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	// now replaces the clock in tests.
	now func() time.Time
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError{config.ErrUsage}
	}
	switch args[0] {
	case config.CmdResolve:
		return c.resolve(args[1:])
	case config.CmdFeed:
		return c.feed(ctx, args[1:])
	case config.CmdServe:
		return c.serve(ctx)
	case config.CmdPassword:
		return c.password(args[1:])
	}
	return usageError{fmt.Sprintf("%s: %q", config.ErrUnknownCommand, args[0])}
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// resolve prints the date described by [year month day [week]] or -json.
func (c *cli) resolve(args []string) error {
	fs := c.flagSet(config.CmdResolve)
	ref := fs.String(config.FlagRef, "", config.FlagDescRef)
	lang := fs.String(config.FlagLang, "", config.FlagDescLang)
	raw := fs.String(config.FlagJSON, "", config.FlagDescJSON)
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}

	settings, err := config.Load(c.settingsPath)
	if err != nil {
		return err
	}
	if *lang != "" {
		settings.Language = *lang
	}
	tr := i18n.NewTranslator(settings.Language)

	var input any
	switch {
	case *raw != "":
		if fs.NArg() != 0 {
			return usageError{config.ErrUsage}
		}
		var in reldate.Input
		if err := json.Unmarshal([]byte(*raw), &in); err != nil {
			return errors.New(tr.Error(err))
		}
		input = in
	case fs.NArg() == config.SequenceLength-1 || fs.NArg() == config.SequenceLength:
		slots := make([]any, config.SequenceLength)
		for i, arg := range fs.Args() {
			if arg != config.ArgAbsent {
				slots[i] = arg
			}
		}
		input = slots
	default:
		return usageError{config.ErrUsage}
	}

	opts := []reldate.Option{reldate.WithWeekConvention(daemon.Convention(settings, tr))}
	if *ref != "" {
		t, err := time.ParseInLocation(config.DateFormatFullDash, *ref, time.Local)
		if err != nil {
			return fmt.Errorf("%s: %w", tr.Msg(config.TKeyErrReference), err)
		}
		opts = append(opts, reldate.WithReference(t))
	} else if c.now != nil {
		opts = append(opts, reldate.WithReference(c.now()))
	}

	date, err := reldate.Resolve(input, opts...)
	if err != nil {
		return errors.New(tr.Error(err))
	}
	_, err = fmt.Fprintln(c.stdout, tr.Resolved(date))
	return err
}

// feed runs one sync and writes the feed to stdout or -o.
func (c *cli) feed(ctx context.Context, args []string) error {
	fs := c.flagSet(config.CmdFeed)
	out := fs.String(config.FlagOutput, "", config.FlagDescOutput)
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	if fs.NArg() != 0 {
		return usageError{config.ErrUsage}
	}

	d, err := daemon.New(c.settingsPath, engine.NewHTTPFetcher())
	if err != nil {
		return err
	}
	if c.now != nil {
		d.Clock = clockFunc(c.now)
	}
	ics, err := d.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stderr, d.Status())

	if *out == "" {
		_, err = c.stdout.Write(ics)
		return err
	}
	return os.WriteFile(*out, ics, config.FilePermUserRW)
}

// serve runs the daemon until ctx is cancelled.
func (c *cli) serve(ctx context.Context) error {
	d, err := daemon.New(c.settingsPath, engine.NewHTTPFetcher())
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

// password reads one line from stdin and stores it for user.
func (c *cli) password(args []string) error {
	if len(args) != 1 || args[0] == "" {
		return usageError{config.ErrUsage}
	}
	user := args[0]
	fmt.Fprintf(c.stderr, config.MsgPasswordPromt, user)

	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return errors.New(config.ErrPasswordRead)
	}
	return daemon.StorePassword(user, pass)
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }
