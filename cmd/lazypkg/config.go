// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/internal/config"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// newConfigCommand creates the `lazypkg config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lazypkg configuration",
		Long: `Manage lazypkg configuration.

Configuration is stored in:
  - Linux: ~/.config/lazypkg/config.cue
  - macOS: ~/Library/Application Support/lazypkg/config.cue
  - Windows: %APPDATA%\lazypkg\config.cue

A config.cue in the current directory is used when the user file is absent.
LAZYPKG_* environment variables override file values, for example
LAZYPKG_SCRIPTS_INDENT=2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return classify(err, app.configPath)
			}

			source := SubtitleStyle.Render("(using defaults)")
			if s.configPath != "" {
				source = s.configPath
			}

			switch format {
			case "cue":
				fmt.Fprintf(app.stdout, "// source: %s\n", source)
				fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			case "toml":
				out, err := config.GenerateTOML(s.cfg)
				if err != nil {
					return classify(err, "")
				}
				fmt.Fprintf(app.stdout, "# source: %s\n", source)
				fmt.Fprint(app.stdout, out)
			default:
				return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("unknown format %q (valid: cue, toml)", format)}
			}
			return nil
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "cue", "output format (cue, toml)")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return classify(err, "")
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render(checkMark), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return classify(err, "")
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}
