// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lazypkg/lazypkg/internal/app/prepare"
	"github.com/lazypkg/lazypkg/internal/buildtool"
	"github.com/lazypkg/lazypkg/internal/issue"
	"github.com/lazypkg/lazypkg/pkg/cueutil"
	"github.com/lazypkg/lazypkg/pkg/manifest"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// failure maps a known error to its exit code, catalog page and hints.
type failure struct {
	target    error
	code      types.ExitCode
	issue     issue.Id
	operation string
	hints     []string
}

// failures is ordered: the first matching target wins.
var failures = []failure{
	{
		target: prepare.ErrOverwriteDeclined, code: types.ExitDeclined, issue: issue.OverwriteDeclinedId,
		operation: "write recipe",
		hints:     []string{"Pass --yes to replace existing files", "Pass --output to write somewhere else"},
	},
	{
		target: manifest.ErrInvalidPackageName, code: types.ExitInvalidManifest, issue: issue.InvalidPackageNameId,
		operation: "validate manifest",
		hints:     []string{`Use only ASCII letters, digits, "-" and "_" in the package name`},
	},
	{
		target: manifest.ErrMalformedManifest, code: types.ExitInvalidManifest, issue: issue.ManifestParseErrorId,
		operation: "parse manifest",
		hints:     []string{"Check the YAML or CUE syntax", "Run 'lazypkg check <manifest>' to list every problem"},
	},
	{
		target: manifest.ErrInvalidManifest, code: types.ExitInvalidManifest, issue: issue.ManifestParseErrorId,
		operation: "validate manifest",
		hints:     []string{"Fix the fields listed above"},
	},
	{
		target: cueutil.ErrFileTooLarge, code: types.ExitInvalidManifest, issue: issue.ManifestParseErrorId,
		operation: "read manifest",
		hints:     []string{"Make sure the path points at a manifest, not an archive or binary"},
	},
	{
		target: recipe.ErrUnsupportedMode, code: types.ExitUsage, issue: issue.UnsupportedModeId,
		operation: "prepare recipe",
		hints:     []string{"Run 'lazypkg modes' to list the supported modes"},
	},
	{
		target: buildtool.ErrToolNotFound, code: types.ExitBuildFailed, issue: issue.BuildToolNotFoundId,
		operation: "build package",
		hints:     []string{"Install the packaging tool or set build.<mode> in the config file"},
	},
	{
		target: buildtool.ErrBuildFailed, code: types.ExitBuildFailed, issue: issue.BuildFailedId,
		operation: "build package",
	},
	{
		target: fs.ErrNotExist, code: types.ExitFailure, issue: issue.ManifestNotFoundId,
		operation: "read manifest",
		hints:     []string{"Check the path", "Run 'lazypkg init <name>' to create a sample manifest"},
	},
	{
		target: fs.ErrPermission, code: types.ExitFailure, issue: issue.PermissionDeniedId,
		operation: "access file",
		hints:     []string{"Check file and directory permissions"},
	},
}

// classify turns err into an *ExitError carrying an ActionableError.
// Errors that already are ActionableError keep their context.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return &ExitError{Code: types.ExitFailure, Err: actionable}
	}

	for _, f := range failures {
		if !errors.Is(err, f.target) {
			continue
		}
		built := issue.New(f.issue, f.operation).
			On(resource).
			Hint(f.hints...).
			Wrap(err)
		return &ExitError{Code: f.code, Err: built}
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// renderError writes err for the user. Verbose mode adds the error chain and
// the catalog page linked to the error.
func renderError(w io.Writer, err error, verbose bool, glamourStyle string) {
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())
		return
	}

	var manifestErrs manifest.ValidationErrors
	if errors.As(err, &manifestErrs) && len(manifestErrs) > 1 {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+"failed to "+actionable.Operation+": "+actionable.Resource)
		for _, e := range manifestErrs {
			fmt.Fprintln(w, "  "+crossMark+" "+e.Error())
		}
		if len(actionable.Hints) > 0 {
			fmt.Fprintln(w)
			for _, s := range actionable.Hints {
				fmt.Fprintln(w, "  • "+s)
			}
		}
	} else {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+actionable.Format(verbose))
	}

	if !verbose {
		return
	}
	if page := actionable.Page(); page != nil {
		rendered, renderErr := page.Render(glamourStyle)
		if renderErr != nil {
			log.Warn("failed to render issue page", "issue", page.Id(), "error", renderErr)
			return
		}
		fmt.Fprint(w, strings.TrimRight(rendered, "\n")+"\n")
	}
}
