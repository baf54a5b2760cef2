// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypkg/lazypkg/pkg/recipe"
)

var modeDescriptions = map[recipe.Mode]string{
	recipe.ModePkgbuild: "Arch Linux PKGBUILD for makepkg",
	recipe.ModeDeb:      "debian/ directory for dpkg-buildpackage",
	recipe.ModeRpm:      "RPM .spec file for rpmbuild",
}

func newModesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the supported packaging modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, mode := range recipe.Modes() {
				fmt.Fprintf(app.stdout, "%-10s %s\n", mode, SubtitleStyle.Render(modeDescriptions[mode]))
			}
			return nil
		},
	}
}
