// SPDX-License-Identifier: MPL-2.0

// Package buildtool runs the native packaging tool for a generated recipe.
package buildtool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"

	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// RecipePlaceholder is replaced by the primary recipe path in command arguments.
const RecipePlaceholder = "{recipe}"

var (
	// ErrNoBuildCommand is returned when no command is configured for a mode.
	ErrNoBuildCommand = errors.New("no build command configured")
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("build tool not found")
	// ErrBuildFailed is the sentinel error wrapped by BuildFailedError.
	ErrBuildFailed = errors.New("build failed")
)

type (
	// Request describes one build.
	Request struct {
		Mode recipe.Mode
		// WorkDir is the directory the tool runs in, usually the output directory.
		WorkDir types.FilesystemPath
		// RecipePath replaces RecipePlaceholder in the command.
		RecipePath types.FilesystemPath
	}

	// Runner executes configured build commands with os/exec.
	Runner struct {
		// Commands maps a mode to its shell-quoted command line.
		Commands map[recipe.Mode]string
		Stdout   io.Writer
		Stderr   io.Writer
		Logger   *log.Logger
	}

	// ToolNotFoundError is returned when the command's executable is not on PATH.
	ToolNotFoundError struct {
		Tool string
		Mode recipe.Mode
	}

	// BuildFailedError is returned when the tool exits with a non-zero status.
	BuildFailedError struct {
		Mode     recipe.Mode
		ExitCode types.ExitCode
		Err      error
	}
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q is not installed or not on PATH", e.Mode, e.Tool)
}

// Unwrap returns ErrToolNotFound for errors.Is() compatibility.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// Error implements the error interface.
func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("%s build exited with status %s", e.Mode, e.ExitCode)
}

// Unwrap returns ErrBuildFailed and the underlying process error.
func (e *BuildFailedError) Unwrap() []error { return []error{ErrBuildFailed, e.Err} }

// Command returns the argv for req after placeholder substitution.
func (r *Runner) Command(req Request) ([]string, error) {
	line := strings.TrimSpace(r.Commands[req.Mode])
	if line == "" {
		return nil, fmt.Errorf("%w for mode %q", ErrNoBuildCommand, req.Mode)
	}
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("build command for %q: %w", req.Mode, err)
	}
	for i, arg := range args {
		args[i] = strings.ReplaceAll(arg, RecipePlaceholder, string(req.RecipePath))
	}
	return args, nil
}

// RunBuild runs the build tool for req and streams its output.
func (r *Runner) RunBuild(ctx context.Context, req Request) error {
	args, err := r.Command(req)
	if err != nil {
		return err
	}

	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("running build tool", "mode", req.Mode, "dir", req.WorkDir, "command", shellquote.Join(args...))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = string(req.WorkDir)
	cmd.Stdin = os.Stdin
	cmd.Stdout = writerOr(r.Stdout, os.Stdout)
	cmd.Stderr = writerOr(r.Stderr, os.Stderr)

	err = cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &ToolNotFoundError{Tool: args[0], Mode: req.Mode}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		if code.Validate() != nil || code.IsSuccess() {
			code = types.ExitFailure
		}
		return &BuildFailedError{Mode: req.Mode, ExitCode: code, Err: err}
	}
	return fmt.Errorf("run %s build: %w", req.Mode, err)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
