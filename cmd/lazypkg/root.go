// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lazypkg.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the lazypkg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lazypkg",
		Short: "Generate PKGBUILD, Debian and RPM recipes from one manifest",
		Long: TitleStyle.Render("lazypkg") + SubtitleStyle.Render(" - package recipes from a single manifest") + `

lazypkg reads a declarative package manifest (YAML or CUE) and writes the
native packaging recipe for Arch Linux (PKGBUILD), Debian (debian/) or
RPM-based distributions (.spec). It can then run the native build tool.

` + SubtitleStyle.Render("Examples:") + `
  lazypkg init onionr               Write a sample onionr.yml manifest
  lazypkg prepare deb onionr.yml    Write debian/ next to the manifest
  lazypkg rpm onionr.yml --build    Write onionr.spec and run rpmbuild
  lazypkg check onionr.yml          Validate and lint every mode`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/lazypkg/config.cue)")

	rootCmd.AddCommand(newPrepareCommand(app))
	for _, shortcut := range newModeShortcuts(app) {
		rootCmd.AddCommand(shortcut)
	}
	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newCheckCommand(app))
	rootCmd.AddCommand(newModesCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting code.
// This is called by main.main().
func Execute() {
	os.Exit(int(run(context.Background(), NewApp(Dependencies{}))))
}

func run(ctx context.Context, app *App) types.ExitCode {
	rootCmd := NewRootCommand(app)
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose, app.glamourStyle)
		}),
	)
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}
