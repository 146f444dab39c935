package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/pridelek/internal/app"
	"github.com/erazemk/pridelek/internal/config"
	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/events"
	"github.com/erazemk/pridelek/internal/ledger"
	"github.com/erazemk/pridelek/internal/metrics"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitRejected = 2
)

// levelRouter is a slog.Handler that routes INFO/WARN to one handler and
// ERROR+ to another.
type levelRouter struct {
	routine slog.Handler
	errors  slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errors.Handle(ctx, r)
	}
	return lr.routine.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		routine: lr.routine.WithAttrs(attrs),
		errors:  lr.errors.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		routine: lr.routine.WithGroup(name),
		errors:  lr.errors.WithGroup(name),
	}
}

// setupLogger configures structured logging. Stdout carries command output, so
// INFO/WARN go to stderr only when verbose is set; ERROR always goes to stderr.
// If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, verbose bool, stderr io.Writer) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	routineW := io.Discard
	if verbose {
		routineW = stderr
	}
	errorsW := stderr

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		routineW = io.MultiWriter(routineW, f)
		errorsW = io.MultiWriter(stderr, f)
	}

	handler := &levelRouter{
		routine: slog.NewTextHandler(routineW, opts),
		errors:  slog.NewTextHandler(errorsW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const usage = `Usage: pridelek [flags] <command> <action> [args]

Flags:
  -b, -backend <name>     store backend: sqlite, pebble, redis, memory (default: sqlite)
  -d, -db <path>          database file or directory (default: pridelek.sqlite3)
  -e, -env <path>         environment file with defaults (default: .env)
  -l, -log <path>         log file path (default: no file, stderr only)
  -m, -metrics <path>     write Prometheus metrics to this textfile after each command
  -j, -journal <path>     append change events to this JSON lines file
  -v, -verbose            log routine records to stderr
  -h, -help               show this help and exit

Commands:
  farmer    add | list [-q text] | get <id> | update <id> | delete <id>
  customer  add | list | get <id> | update <id> | delete <id>
  storage   add | list | get <id> | update <id> | delete <id> | raw
  purchase  add | list [-farmer id] | get <id> | update <id> | delete <id>
  product   add | list | get <id> | update <id> | delete <id>
  order     add | list [-status s] [-customer id] | get <id> | update <id> | delete <id>
  inventory add | list | status | update <id> | delete <id>
  report    sales | financial | inventory [-from date] [-to date]
            expense -period daily|weekly|monthly [-date date]
  settings  show | tax <rate>

Run "pridelek <command> <action> -h" for the flags of an action.
Records are printed to stdout as JSON. Exit status is 2 when a business rule
rejects the command and 1 on any other failure.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pridelek", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var backend, dbPath, envFile, logPath, metricsPath, journalPath string
	var verbose bool
	fs.StringVar(&backend, "backend", "", "")
	fs.StringVar(&backend, "b", "", "")
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")
	fs.StringVar(&envFile, "env", "", "")
	fs.StringVar(&envFile, "e", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")
	fs.StringVar(&metricsPath, "metrics", "", "")
	fs.StringVar(&metricsPath, "m", "", "")
	fs.StringVar(&journalPath, "journal", "", "")
	fs.StringVar(&journalPath, "j", "", "")
	fs.BoolVar(&verbose, "verbose", false, "")
	fs.BoolVar(&verbose, "v", false, "")

	fs.Usage = func() {
		fmt.Fprint(stdout, usage)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitFailure
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return exitFailure
	}

	// Flags override the environment.
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend", "b":
			cfg.Store.Backend = backend
		case "db", "d":
			cfg.Store.Path = dbPath
		case "log", "l":
			cfg.LogPath = logPath
		case "metrics", "m":
			cfg.MetricsPath = metricsPath
		case "journal", "j":
			cfg.JournalPath = journalPath
		case "verbose", "v":
			cfg.Verbose = verbose
		}
	})

	closeLog, err := setupLogger(cfg.LogPath, cfg.Verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(ctx, cfg.DBOptions())
	if err != nil {
		slog.Error("failed to open database", "backend", cfg.Store.Backend, "error", err)
		return exitFailure
	}
	defer database.Close()

	bus := events.NewBus()
	if cfg.JournalPath != "" {
		journal, err := events.NewFileWriter(cfg.JournalPath)
		if err != nil {
			slog.Error("failed to open journal", "path", cfg.JournalPath, "error", err)
			return exitFailure
		}
		bus.Subscribe(journal)
	}

	reg := metrics.NewRegistry()
	svc := app.New(database, slog.Default(), reg, bus)

	c := &cli{svc: svc, stdout: stdout, stderr: stderr}
	cmdErr := c.dispatch(ctx, fs.Arg(0), fs.Arg(1), fs.Args()[2:])

	if cfg.MetricsPath != "" {
		if err := writeMetrics(ctx, svc, cfg.MetricsPath); err != nil {
			slog.Error("failed to write metrics", "path", cfg.MetricsPath, "error", err)
		}
	}

	return exitCode(cmdErr, stderr)
}

func writeMetrics(ctx context.Context, svc *app.Service, path string) error {
	if err := svc.RefreshGauges(ctx); err != nil {
		return err
	}
	return svc.Metrics().WriteTextfile(path)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if ledger.Kind(err) != "" {
		return exitRejected
	}
	return exitFailure
}
