package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/nijaru/autocaption/backend"
	"github.com/nijaru/autocaption/config"
	"github.com/nijaru/autocaption/db"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/logger"
	"github.com/nijaru/autocaption/tui"
	"github.com/sirupsen/logrus"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"submit":    {"submit [flags] <video>    upload a video and request captions", cmdSubmit},
	"status":    {"status <job-id>           poll a captioning job once", cmdStatus},
	"watch":     {"watch [-plain] <job-id>   follow a job until it finishes", cmdWatch},
	"history":   {"history [-n 20]           list recent submissions", cmdHistory},
	"preview":   {"preview [flags] [text]    show how captions will be laid out", cmdPreview},
	"color":     {"color <#RRGGBB> | -hsl h,s,l   convert caption colors", cmdColor},
	"estimate":  {"estimate [-duration 2m] <video>   estimate processing time", cmdEstimate},
	"health":    {"health                    check the captioning backend", cmdHealth},
	"languages": {"languages                 list recognised language codes", cmdLanguages},
}

// app holds what every subcommand shares.
type app struct {
	cfg     *config.Config
	out     io.Writer
	backend *backend.Client
	store   *db.Store
}

// ledger opens the job history on first use.
func (a *app) ledger() (*db.Store, error) {
	if a.store == nil {
		s, err := db.Open(a.cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.store = s
	}
	return a.store, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close job ledger")
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, out io.Writer) int {
	global := flag.NewFlagSet("autocaption", flag.ContinueOnError)
	global.SetOutput(out)
	verbose := global.Bool("v", false, "also write logs to stderr")
	envFile := global.String("env", ".env", "environment file to load")
	global.Usage = func() { usage(out) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(out)
		return 2
	}

	name, rest := global.Arg(0), global.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(out, "unknown command %q\n\n", name)
		usage(out)
		return 2
	}

	cfg := config.Load(*envFile)

	console := io.Discard
	if *verbose {
		console = os.Stderr
	}
	closer, err := logger.Setup(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Format: cfg.LogFormat, Console: console})
	if err != nil {
		fmt.Fprintf(out, "failed to set up logging: %v\n", err)
		return 1
	}
	defer closer.Close()

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(out, tui.ErrorStyle.Render("Invalid configuration: "+err.Error()))
		return 1
	}

	a := &app{
		cfg:     cfg,
		out:     out,
		backend: backend.NewClient(cfg.APIRoot, nil),
	}
	defer a.close()

	if err := cmd.run(ctx, a, rest); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		logrus.WithError(err).WithField("command", name).Error("Command failed")
		fmt.Fprintln(out, tui.ErrorStyle.Render("Error: "+describe(err)))
		return 1
	}
	return 0
}

// describe renders err for the terminal, including per-field problems.
func describe(err error) string {
	e, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	msg := e.Message
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg += fmt.Sprintf("\n  %s: %s", k, e.Fields[k])
		}
	}
	return msg
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: autocaption [-v] [-env file] <command> [flags]")
	fmt.Fprintln(out)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
}
