// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/internal/app/prepare"
	"github.com/lazypkg/lazypkg/internal/config"
	"github.com/lazypkg/lazypkg/internal/tui"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// prepareFlags holds the flags shared by `prepare` and the mode shortcuts.
type prepareFlags struct {
	output  string
	yes     bool
	build   bool
	noBuild bool
}

func (f *prepareFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory to write the recipe into (default: the manifest's directory)")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "overwrite existing files without asking")
	cmd.Flags().BoolVar(&f.build, "build", false, "run the native build tool after writing the recipe")
	cmd.Flags().BoolVar(&f.noBuild, "no-build", false, "do not run or offer to run the build tool")
	cmd.MarkFlagsMutuallyExclusive("build", "no-build")
}

func newPrepareCommand(app *App) *cobra.Command {
	flags := &prepareFlags{}
	cmd := &cobra.Command{
		Use:   "prepare [mode] <manifest>",
		Short: "Write the recipe for one packaging mode",
		Long: `Write the recipe for one packaging mode.

Without a mode, default_mode from the configuration is used.
Modes: pkgbuild, deb, rpm.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, manifestPath := "", args[0]
			if len(args) == 2 {
				mode, manifestPath = args[0], args[1]
			}
			return runPrepare(cmd.Context(), app, mode, manifestPath, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// newModeShortcuts returns `lazypkg pkgbuild|deb|rpm <manifest>`.
func newModeShortcuts(app *App) []*cobra.Command {
	modes := recipe.Modes()
	cmds := make([]*cobra.Command, 0, len(modes))
	for _, mode := range modes {
		flags := &prepareFlags{}
		cmd := &cobra.Command{
			Use:   mode.String() + " <manifest>",
			Short: fmt.Sprintf("Shortcut for 'lazypkg prepare %s'", mode),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPrepare(cmd.Context(), app, mode.String(), args[0], flags)
			},
		}
		flags.register(cmd)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func runPrepare(ctx context.Context, app *App, modeArg, manifestPath string, flags *prepareFlags) error {
	s, err := app.session(ctx)
	if err != nil {
		return classify(err, "")
	}

	mode := s.cfg.DefaultMode
	if modeArg != "" {
		parsed, err := recipe.ParseMode(modeArg)
		if err != nil {
			return classify(err, modeArg)
		}
		mode = parsed
	}
	if mode == "" {
		return classify(&recipe.UnsupportedModeError{Value: mode}, "")
	}

	svc, err := app.service(s, app.overwriteConfirmer(s, flags.yes))
	if err != nil {
		return classify(err, s.configPath)
	}

	result, err := svc.Prepare(ctx, prepare.Request{
		Mode:         mode,
		ManifestPath: types.FilesystemPath(manifestPath),
		OutputDir:    types.FilesystemPath(flags.output),
	})
	if err != nil {
		return classify(err, manifestPath)
	}
	if !result.Supported {
		return classify(&recipe.UnsupportedModeError{Value: mode}, string(mode))
	}

	fmt.Fprintf(app.stdout, "%s Prepared %s recipe for %s\n",
		SuccessStyle.Render(checkMark), CmdStyle.Render(mode.String()), TitleStyle.Render(result.Manifest.Name.String()))
	for _, path := range result.Written {
		fmt.Fprintf(app.stdout, "  %s\n", path)
	}

	build, err := app.shouldBuild(ctx, mode, flags)
	if err != nil {
		return classify(err, "")
	}
	if !build {
		return nil
	}
	if err := svc.Build(ctx, result); err != nil {
		return classify(err, string(result.OutputDir))
	}
	fmt.Fprintf(app.stdout, "%s Built %s package\n", SuccessStyle.Render(checkMark), CmdStyle.Render(mode.String()))
	return nil
}

// overwriteConfirmer picks the confirmer for the configured overwrite policy.
// Prompting needs a terminal; without one existing files are kept.
func (a *App) overwriteConfirmer(s *session, yes bool) prepare.OverwriteConfirmer {
	if yes {
		return prepare.AlwaysConfirm
	}
	switch s.cfg.Output.Overwrite {
	case config.OverwriteAlways:
		return prepare.AlwaysConfirm
	case config.OverwriteNever:
		return prepare.NeverConfirm
	}
	if !a.Interactive() {
		return prepare.NeverConfirm
	}
	return tui.NewConfirmer()
}

func (a *App) shouldBuild(ctx context.Context, mode recipe.Mode, flags *prepareFlags) (bool, error) {
	switch {
	case flags.build:
		return true, nil
	case flags.noBuild || !a.Interactive():
		return false, nil
	}
	return tui.NewConfirmer().ConfirmBuild(ctx, mode)
}
