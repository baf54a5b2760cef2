// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lazypkg/lazypkg/internal/app/prepare"
	"github.com/lazypkg/lazypkg/internal/buildtool"
	"github.com/lazypkg/lazypkg/internal/config"
	"github.com/lazypkg/lazypkg/internal/fileio"
	"github.com/lazypkg/lazypkg/internal/tui"
	"github.com/lazypkg/lazypkg/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration, prompts and I/O through it.
	App struct {
		Config      config.Provider
		Reader      prepare.ManifestReader
		Writer      prepare.FileWriter
		Interactive func() bool
		stdout      io.Writer
		stderr      io.Writer

		// glamourStyle renders issue pages; set from ui.color_scheme.
		glamourStyle string

		// Global flags.
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		Reader      prepare.ManifestReader
		Writer      prepare.FileWriter
		Interactive func() bool
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// session is the per-invocation state derived from flags and configuration.
	session struct {
		cfg        *config.Config
		configPath string
		verbose    bool
		logger     *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Reader == nil {
		deps.Reader = fileio.OSReader{}
	}
	if deps.Writer == nil {
		deps.Writer = fileio.AtomicWriter{}
	}
	if deps.Interactive == nil {
		deps.Interactive = tui.IsInteractive
	}

	return &App{
		Config:       deps.Config,
		Reader:       deps.Reader,
		Writer:       deps.Writer,
		Interactive:  deps.Interactive,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		glamourStyle: "auto",
	}
}

// session loads the configuration and applies it on top of the global flags.
func (a *App) session(ctx context.Context) (*session, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
	if err != nil {
		return nil, err
	}

	verbose := a.verbose || loaded.Config.UI.Verbose
	a.verbose = verbose

	switch loaded.Config.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	s := &session{
		cfg:        loaded.Config,
		configPath: loaded.Path,
		verbose:    verbose,
		logger:     newLogger(a.stderr, verbose),
	}
	a.glamourStyle = s.glamourStyle()
	return s, nil
}

// service builds a prepare.Service from the session configuration.
func (a *App) service(s *session, confirmer prepare.OverwriteConfirmer) (*prepare.Service, error) {
	opts, err := s.cfg.Scripts.RecipeOptions()
	if err != nil {
		return nil, err
	}
	runner := &buildtool.Runner{
		Commands: s.cfg.Build.Commands(),
		Stdout:   a.stdout,
		Stderr:   a.stderr,
		Logger:   s.logger,
	}
	return prepare.NewService(a.Reader, a.Writer,
		prepare.WithConfirmer(confirmer),
		prepare.WithBuildRunner(runner),
		prepare.WithRecipeOptions(opts),
		prepare.WithLogger(s.logger),
	), nil
}

// glamourStyle returns the glamour style matching the configured color scheme.
func (s *session) glamourStyle() string {
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
