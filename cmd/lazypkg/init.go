// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/internal/app/prepare"
	"github.com/lazypkg/lazypkg/internal/fileio"
	"github.com/lazypkg/lazypkg/internal/tui"
	"github.com/lazypkg/lazypkg/pkg/manifest"
	"github.com/lazypkg/lazypkg/pkg/types"
)

const (
	formatYAML = "yaml"
	formatCUE  = "cue"
)

type initFlags struct {
	format string
	output string
	yes    bool
}

func newInitCommand(app *App) *cobra.Command {
	flags := &initFlags{}
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a sample manifest",
		Long: `Write a sample manifest named <name>.yml (or <name>.cue with --format cue).

Without a name, lazypkg asks for one until a valid package name is entered.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runInit(cmd.Context(), app, name, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", formatYAML, "manifest format (yaml, cue)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".", "directory to write the manifest into")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "overwrite an existing manifest without asking")
	return cmd
}

func runInit(ctx context.Context, app *App, name string, flags *initFlags) error {
	s, err := app.session(ctx)
	if err != nil {
		return classify(err, "")
	}

	if name == "" {
		if !app.Interactive() {
			return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("a package name is required when stdin is not a terminal")}
		}
		name, err = tui.Input(ctx, tui.DefaultConfig(), "Package name", "mypackage", func(v string) error {
			return manifest.PackageName(v).Validate()
		})
		if err != nil {
			return classify(err, "")
		}
	}
	if err := manifest.PackageName(name).Validate(); err != nil {
		return classify(err, name)
	}

	sample := manifest.Sample(name)
	var (
		content []byte
		ext     string
	)
	switch flags.format {
	case formatYAML:
		content, err = manifest.GenerateYAML(sample)
		if err != nil {
			return classify(err, name)
		}
		ext = ".yml"
	case formatCUE:
		content, ext = []byte(manifest.GenerateCUE(sample)), ".cue"
	default:
		return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("unknown format %q (valid: yaml, cue)", flags.format)}
	}

	target := types.FilesystemPath(flags.output).Join(name + ext)
	exists, err := app.Writer.Exists(ctx, target)
	if err != nil {
		return classify(err, target.String())
	}
	if exists {
		ok, err := app.overwriteConfirmer(s, flags.yes).ConfirmOverwrite(ctx, target)
		if err != nil {
			return classify(err, target.String())
		}
		if !ok {
			return classify(&prepare.OverwriteDeclinedError{Path: target}, target.String())
		}
	}

	if err := app.Writer.WriteFile(ctx, target, content, fileio.FilePerm); err != nil {
		return classify(err, target.String())
	}
	s.logger.Debug("wrote sample manifest", "path", target, "format", flags.format)

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render(checkMark), CmdStyle.Render(target.String()))
	fmt.Fprintf(app.stdout, "\nNext: %s\n", CmdStyle.Render("lazypkg prepare <mode> "+target.String()))
	return nil
}
