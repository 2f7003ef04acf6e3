package main

import (
	"context"
	"io"
	"os"

	"github.com/dotsetup/dotsetup/internal/adapters/apt"
	"github.com/dotsetup/dotsetup/internal/adapters/command"
	"github.com/dotsetup/dotsetup/internal/adapters/dconf"
	"github.com/dotsetup/dotsetup/internal/adapters/filesystem"
	"github.com/dotsetup/dotsetup/internal/adapters/logging"
	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/tui"
	"github.com/mattn/go-isatty"
)

// Process hooks, replaced in tests.
var (
	newEnvResolver   = config.NewEnvResolver
	geteuid          = os.Geteuid
	hostExists       = fileExists
	newCollaborators = defaultCollaborators
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// defaultCollaborators wires the real adapters. Package queries run as the
// invoking user; installs and removals go through sudo.
func defaultCollaborators(assumeYes bool) app.Collaborators {
	runner := command.NewRealRunner()
	admin := command.NewSudoRunner(runner).WithEnv("DEBIAN_FRONTEND=noninteractive")

	return app.Collaborators{
		FS:       filesystem.NewRealFileSystem(),
		Packages: apt.NewManager(runner, admin),
		Settings: dconf.NewBackend(runner),
		Prompter: tui.NewPrompter(assumeYes, os.Stdin, os.Stdout),
	}
}

func loadProject() (*app.Project, error) {
	return app.Load(cfgFile, newEnvResolver())
}

// newConsoleLogger builds the stderr logger. Progress goes through the
// reporter, so the console only shows warnings by default.
func newConsoleLogger(w io.Writer) (*logging.ConsoleLogger, error) {
	level, err := ports.ParseLevel(logLevel)
	if err != nil {
		return nil, config.NewInvalidError("--log-level", err.Error()).
			WithSuggestion("Use debug, info, warn or error.")
	}
	if verbose {
		level = ports.LevelDebug
	}

	var jsonFormat bool
	switch logFormat {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, config.NewInvalidError("--log-format", "unknown format "+logFormat).
			WithSuggestion("Use text or json.")
	}

	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonFormat),
		logging.WithColor(isTerminal(w)),
	), nil
}

// newRunLogger adds the persistent install log to the console logger. A
// log file that cannot be opened is reported and skipped.
func newRunLogger(ctx context.Context, w io.Writer, p *app.Project) (ports.Logger, func(), error) {
	console, err := newConsoleLogger(w)
	if err != nil {
		return nil, nil, err
	}

	path := p.Manifest.LogFile
	if path == "" {
		path = p.Env.LogPath()
	}

	fileLogger, f, err := logging.OpenFileLogger(path)
	if err != nil {
		console.Warn(ctx, "install log disabled", ports.F("path", path), ports.Err(err))
		return console, func() {}, nil
	}

	logger := logging.NewMultiLogger(console, fileLogger).With(ports.F("pid", os.Getpid()))
	return logger, func() { _ = f.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
