package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/studydev/studydev/internal/config"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/logger"
	"github.com/studydev/studydev/internal/redact"
	"github.com/studydev/studydev/internal/service"
	"github.com/studydev/studydev/internal/service/card_review"
	"github.com/studydev/studydev/internal/store"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks errors caused by a malformed command line.
var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// cli carries what every command needs: configuration, logging and the
// process streams.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	clock  srs.Clock // nil means the system clock
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"card":     {"card <add|list|show|edit|delete|postpone> [flags]", "manage flashcards", runCard},
	"review":   {"review [--subject S] [--limit N]", "run an interactive review session", runReview},
	"due":      {"due [--subject S] [--limit N]", "list cards due today", runDue},
	"stats":    {"stats [--subject S]", "show deck statistics", runStats},
	"subjects": {"subjects", "list subjects with card counts and mastery", runSubjects},
	"migrate":  {"migrate [up|down|status|version]", "manage the database schema", runMigrate},
	"serve":    {"serve [--addr HOST:PORT]", "serve the local HTTP API", runServe},
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runWithClock(ctx, args, stdin, stdout, stderr, nil)
}

func runWithClock(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	clock srs.Clock,
) int {
	global := pflag.NewFlagSet("studydev", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)

	configPath := global.String("config", "", "config file (default ~/.studydev/config.yaml)")
	global.String("db", "", "database DSN: a file path for sqlite, a URL for postgres")
	global.String("driver", "", "database driver: sqlite or postgres")
	global.String("log-level", "", "log level: debug, info, warn or error")
	global.String("log-format", "", "log format: text or json")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		printUsage(stderr, global)
		if len(rest) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "studydev: unknown command %q\n\n", rest[0])
		printUsage(stderr, global)
		return exitUsage
	}

	cfg, err := config.LoadWithFlags(*configPath, global)
	if err != nil {
		fmt.Fprintf(stderr, "studydev: %s\n", redact.Error(err))
		return exitError
	}

	c := &cli{
		cfg:    cfg,
		logger: logger.Setup(cfg.Log, stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		clock:  clock,
	}

	err = cmd.run(ctx, c, rest[1:])
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "studydev %s: %s\nusage: studydev %s\n", rest[0], userMessage(err), cmd.usage)
		return exitUsage
	default:
		c.logger.Debug("command failed", slog.String("command", rest[0]), slog.String("error", redact.Error(err)))
		fmt.Fprintf(stderr, "studydev %s: %s\n", rest[0], userMessage(err))
		return exitError
	}
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: studydev [global flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	fmt.Fprint(w, global.FlagUsages())
}

// newFlagSet returns a flag set for a subcommand that reports errors instead
// of exiting and writes its help to the command's stderr.
func newFlagSet(c *cli, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parseFlags parses args and wraps parse failures as usage errors.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

// cardIDArg parses the single positional card ID of show/edit/delete/postpone.
func cardIDArg(fs *pflag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, usageErrorf("expected exactly one card ID")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id < 1 {
		return 0, usageErrorf("invalid card ID %q", fs.Arg(0))
	}
	return id, nil
}

// userMessage renders an error for the terminal. Known conditions get a
// short explanation; anything else is redacted before printing.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case store.IsNotFoundError(err), errors.Is(err, card_review.ErrCardNotFound):
		return "card not found"
	case errors.Is(err, card_review.ErrInvalidAnswer):
		return "quality must be a number from 0 to 5"
	case errors.Is(err, card_review.ErrInvalidPostpone):
		return "days must be at least 1"
	case errors.Is(err, service.ErrNoChanges):
		return "nothing to change: pass at least one of --subject, --front, --back, --tags"
	case errors.Is(err, domain.ErrEmptyContent):
		return "subject, front and back must contain text"
	case errors.Is(err, service.ErrInvalidRequest):
		return "invalid card: " + redact.Error(err)
	default:
		return redact.Error(err)
	}
}
