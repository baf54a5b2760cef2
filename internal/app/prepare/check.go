// SPDX-License-Identifier: MPL-2.0

package prepare

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/lazypkg/lazypkg/pkg/manifest"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

type (
	// CheckReport is the outcome of generating and linting one mode.
	CheckReport struct {
		Mode  recipe.Mode
		Files []string
		// Err holds the generation or lint failure, if any.
		Err error
	}

	// CheckResult holds one report per requested mode, in request order.
	CheckResult struct {
		Manifest *manifest.Manifest
		Reports  []CheckReport
	}
)

// Err joins the failures of every report.
func (r *CheckResult) Err() error {
	var errs []error
	for _, report := range r.Reports {
		if report.Err != nil {
			errs = append(errs, report.Err)
		}
	}
	return errors.Join(errs...)
}

// Check parses the manifest and generates and lints each mode without
// writing anything. Modes run concurrently. An empty modes list checks all of
// recipe.Modes(). A manifest that fails to parse is returned as the error;
// per-mode problems are reported in the result.
func (s *Service) Check(ctx context.Context, path types.FilesystemPath, modes ...recipe.Mode) (*CheckResult, error) {
	m, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(modes) == 0 {
		modes = recipe.Modes()
	}

	reports := make([]CheckReport, len(modes))
	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.checkMode(mode, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CheckResult{Manifest: m, Reports: reports}, nil
}

func (s *Service) checkMode(mode recipe.Mode, m *manifest.Manifest) CheckReport {
	report := CheckReport{Mode: mode}
	if err := mode.Validate(); err != nil {
		report.Err = err
		return report
	}
	out, err := recipe.Generate(mode, m, s.options)
	if err != nil {
		report.Err = err
		return report
	}
	for _, f := range out.Files {
		report.Files = append(report.Files, f.Name)
	}
	report.Err = out.LintAll()
	s.logger.Debug("checked mode", "mode", mode, "files", len(report.Files), "ok", report.Err == nil)
	return report
}
