// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/internal/app/prepare"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// errCheckFailed reports that at least one mode failed generation or lint.
var errCheckFailed = errors.New("check failed")

func newCheckCommand(app *App) *cobra.Command {
	var modes []string
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Validate a manifest and lint the generated recipes",
		Long: `Validate a manifest and lint the generated recipes.

Every mode (or only those given with --mode) is generated in memory and the
shell parts of the output are parsed. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return classify(err, "")
			}
			svc, err := app.service(s, prepare.NeverConfirm)
			if err != nil {
				return classify(err, s.configPath)
			}

			selected := make([]recipe.Mode, 0, len(modes))
			for _, m := range modes {
				// Unknown modes are reported per mode by Check.
				mode, _ := recipe.ParseMode(m)
				selected = append(selected, mode)
			}

			result, err := svc.Check(cmd.Context(), types.FilesystemPath(args[0]), selected...)
			if err != nil {
				return classify(err, args[0])
			}

			failed := 0
			for _, report := range result.Reports {
				if report.Err != nil {
					failed++
					fmt.Fprintf(app.stdout, "%s %-9s %s\n", ErrorStyle.Render(crossMark), report.Mode, report.Err)
					continue
				}
				fmt.Fprintf(app.stdout, "%s %-9s %s\n", SuccessStyle.Render(checkMark), report.Mode,
					SubtitleStyle.Render(strings.Join(report.Files, ", ")))
			}
			if failed > 0 {
				return &ExitError{
					Code: types.ExitInvalidManifest,
					Err:  fmt.Errorf("%w: %d of %d modes", errCheckFailed, failed, len(result.Reports)),
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&modes, "mode", "m", nil, "mode to check (repeatable; default: all modes)")
	return cmd
}
