// SPDX-License-Identifier: MPL-2.0

package prepare

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lazypkg/lazypkg/internal/buildtool"
	"github.com/lazypkg/lazypkg/internal/fileio"
	"github.com/lazypkg/lazypkg/pkg/manifest"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

var (
	// ErrOverwriteDeclined is the sentinel error wrapped by OverwriteDeclinedError.
	ErrOverwriteDeclined = errors.New("overwrite declined")
	// ErrNotPrepared is returned by Build for a result without a recipe.
	ErrNotPrepared = errors.New("no recipe was written")
)

// Confirmers that never prompt.
var (
	AlwaysConfirm OverwriteConfirmer = fixedConfirmer(true)
	NeverConfirm  OverwriteConfirmer = fixedConfirmer(false)
)

type (
	// ManifestReader loads the raw manifest document.
	ManifestReader interface {
		ReadManifest(ctx context.Context, path types.FilesystemPath) ([]byte, error)
	}

	// OverwriteConfirmer decides whether an existing file may be replaced.
	OverwriteConfirmer interface {
		ConfirmOverwrite(ctx context.Context, path types.FilesystemPath) (bool, error)
	}

	// FileWriter persists generated files.
	FileWriter interface {
		Exists(ctx context.Context, path types.FilesystemPath) (bool, error)
		WriteFile(ctx context.Context, path types.FilesystemPath, data []byte, perm fs.FileMode) error
	}

	// BuildRunner runs the native packaging tool.
	BuildRunner interface {
		RunBuild(ctx context.Context, req buildtool.Request) error
	}

	// Option configures a Service.
	Option func(*Service)

	// Service prepares recipes from manifests.
	Service struct {
		reader    ManifestReader
		writer    FileWriter
		confirmer OverwriteConfirmer
		builder   BuildRunner
		options   recipe.Options
		logger    *log.Logger
	}

	// Request describes one prepare run.
	Request struct {
		Mode         recipe.Mode
		ManifestPath types.FilesystemPath
		// OutputDir receives the files. Empty means the manifest's directory.
		OutputDir types.FilesystemPath
	}

	// Result reports what Prepare did.
	Result struct {
		Mode recipe.Mode
		// Supported is false when Mode has no generator; nothing is written then.
		Supported bool
		Manifest  *manifest.Manifest
		OutputDir types.FilesystemPath
		// Written lists the files in generation order.
		Written []types.FilesystemPath
		// Recipe is the primary recipe file.
		Recipe types.FilesystemPath
	}

	// OverwriteDeclinedError names the existing file that was not replaced.
	OverwriteDeclinedError struct {
		Path types.FilesystemPath
	}

	fixedConfirmer bool
)

// Error implements the error interface.
func (e *OverwriteDeclinedError) Error() string {
	return fmt.Sprintf("not overwriting %s", e.Path)
}

// Unwrap returns ErrOverwriteDeclined for errors.Is() compatibility.
func (e *OverwriteDeclinedError) Unwrap() error { return ErrOverwriteDeclined }

func (c fixedConfirmer) ConfirmOverwrite(context.Context, types.FilesystemPath) (bool, error) {
	return bool(c), nil
}

// WithConfirmer sets the overwrite confirmer. The default is NeverConfirm.
func WithConfirmer(c OverwriteConfirmer) Option {
	return func(s *Service) { s.confirmer = c }
}

// WithBuildRunner sets the runner used by Build.
func WithBuildRunner(b BuildRunner) Option {
	return func(s *Service) { s.builder = b }
}

// WithRecipeOptions sets the generation options.
func WithRecipeOptions(o recipe.Options) Option {
	return func(s *Service) { s.options = o }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service. Nil reader or writer fall back to the
// local filesystem implementations from fileio.
func NewService(reader ManifestReader, writer FileWriter, opts ...Option) *Service {
	s := &Service{reader: reader, writer: writer}
	for _, opt := range opts {
		opt(s)
	}
	if s.reader == nil {
		s.reader = fileio.OSReader{}
	}
	if s.writer == nil {
		s.writer = fileio.AtomicWriter{}
	}
	if s.confirmer == nil {
		s.confirmer = NeverConfirm
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Load reads and parses the manifest at path.
func (s *Service) Load(ctx context.Context, path types.FilesystemPath) (*manifest.Manifest, error) {
	data, err := s.reader.ReadManifest(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return manifest.ParseBytes(data, string(path))
}

// Prepare generates the recipe for req.Mode and writes it. Every existing
// target is confirmed before the first write, so a declined overwrite leaves
// the output directory untouched.
func (s *Service) Prepare(ctx context.Context, req Request) (*Result, error) {
	m, err := s.Load(ctx, req.ManifestPath)
	if err != nil {
		return nil, err
	}

	out, err := recipe.Generate(req.Mode, m, s.options)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = req.ManifestPath.Dir()
	}
	result := &Result{Mode: req.Mode, Supported: out.Supported, Manifest: m, OutputDir: outputDir}
	if !out.Supported {
		s.logger.Debug("mode not supported", "mode", req.Mode)
		return result, nil
	}

	targets := make([]types.FilesystemPath, len(out.Files))
	for i, f := range out.Files {
		targets[i] = outputDir.Join(f.Name)
	}

	if err := s.confirmTargets(ctx, targets); err != nil {
		return nil, err
	}

	for i, f := range out.Files {
		if err := s.writer.WriteFile(ctx, targets[i], []byte(f.Content), fileio.Perm(f.Executable)); err != nil {
			return result, fmt.Errorf("write %s: %w", targets[i], err)
		}
		s.logger.Debug("wrote file", "path", targets[i], "executable", f.Executable)
		result.Written = append(result.Written, targets[i])
	}
	result.Recipe = targets[0]

	s.logger.Info("recipe prepared", "mode", req.Mode, "package", m.Name, "path", result.Recipe, "files", len(result.Written))
	return result, nil
}

func (s *Service) confirmTargets(ctx context.Context, targets []types.FilesystemPath) error {
	for _, target := range targets {
		exists, err := s.writer.Exists(ctx, target)
		if err != nil {
			return fmt.Errorf("stat %s: %w", target, err)
		}
		if !exists {
			continue
		}
		ok, err := s.confirmer.ConfirmOverwrite(ctx, target)
		if err != nil {
			return err
		}
		if !ok {
			return &OverwriteDeclinedError{Path: target}
		}
	}
	return nil
}

// Build runs the build tool for a prepared result inside its output directory.
func (s *Service) Build(ctx context.Context, result *Result) error {
	if result == nil || result.Recipe == "" {
		return ErrNotPrepared
	}
	if s.builder == nil {
		return buildtool.ErrNoBuildCommand
	}
	recipePath, err := recipeInDir(result.OutputDir, result.Recipe)
	if err != nil {
		return err
	}
	s.logger.Info("building package", "mode", result.Mode, "dir", result.OutputDir)
	return s.builder.RunBuild(ctx, buildtool.Request{
		Mode:       result.Mode,
		WorkDir:    result.OutputDir,
		RecipePath: recipePath,
	})
}

// recipeInDir returns recipe as seen from a process running in dir.
func recipeInDir(dir, recipe types.FilesystemPath) (types.FilesystemPath, error) {
	if dir == "" {
		dir = "."
	}
	rel, err := filepath.Rel(string(dir), string(recipe))
	if err == nil {
		return types.FilesystemPath(rel), nil
	}
	abs, err := filepath.Abs(string(recipe))
	if err != nil {
		return "", fmt.Errorf("resolve recipe %s: %w", recipe, err)
	}
	return types.FilesystemPath(abs), nil
}
