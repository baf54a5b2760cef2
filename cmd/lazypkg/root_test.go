// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lazypkg/lazypkg/internal/config"
	"github.com/lazypkg/lazypkg/internal/issue"
	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

const testManifest = `name: onionr
version: 0.1
release: 1
summary: anonymous P2P communication platform
license: GPL
website: https://onionr.net
contact: contact@onionr.net
author: Kevin Froman
sources:
- git: https://gitlab.com/beardog/onionr.git
dependencies:
- deb: git
  required: true
- deb: python3.7
  pkgbuild: python
  build: true
movements:
- install/onionr: /usr/bin/
  chown: root:root
  chmod: 755
scripts:
- build: install/build.sh
- post_install: install/post_install.sh
`

type (
	staticConfig struct {
		cfg *config.Config
	}

	cliResult struct {
		stdout string
		stderr string
		err    error
	}
)

func (p staticConfig) Load(context.Context, config.LoadOptions) (*config.Loaded, error) {
	return &config.Loaded{Config: p.cfg}, nil
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) cliResult {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:      staticConfig{cfg: cfg},
		Interactive: func() bool { return false },
		Stdout:      &stdout,
		Stderr:      &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeManifest(t *testing.T, content string) (dir, path string) {
	t.Helper()

	dir = t.TempDir()
	path = filepath.Join(dir, "onionr.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()

	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v (%T) is not an *ExitError", err, err)
	}
	return exitErr.Code
}

func TestPrepareCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		primary string
	}{
		{[]string{"prepare", "pkgbuild"}, "PKGBUILD"},
		{[]string{"prepare", "deb"}, filepath.Join("debian", "control")},
		{[]string{"rpm"}, "onionr.spec"},
		{[]string{"deb"}, filepath.Join("debian", "rules")},
		{[]string{"prepare", "PKGBUILD"}, "PKGBUILD"},
		{[]string{"prepare", " Deb "}, filepath.Join("debian", "control")},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			dir, path := writeManifest(t, testManifest)
			res := runCLI(t, nil, append(tt.args, path, "--no-build")...)
			if res.err != nil {
				t.Fatalf("prepare error = %v", res.err)
			}
			if _, err := os.Stat(filepath.Join(dir, tt.primary)); err != nil {
				t.Errorf("%s was not written: %v", tt.primary, err)
			}
			if !strings.Contains(res.stdout, "Prepared") || !strings.Contains(res.stdout, "onionr") {
				t.Errorf("stdout = %q", res.stdout)
			}
		})
	}
}

func TestPrepareCommand_OutputDir(t *testing.T) {
	t.Parallel()

	_, path := writeManifest(t, testManifest)
	out := filepath.Join(t.TempDir(), "build")

	res := runCLI(t, nil, "pkgbuild", path, "-o", out)
	if res.err != nil {
		t.Fatalf("prepare error = %v", res.err)
	}
	for _, name := range []string{"PKGBUILD", "onionr.install"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestPrepareCommand_DefaultMode(t *testing.T) {
	t.Parallel()

	dir, path := writeManifest(t, testManifest)
	cfg := config.DefaultConfig()
	cfg.DefaultMode = recipe.ModeRpm

	if res := runCLI(t, cfg, "prepare", path); res.err != nil {
		t.Fatalf("prepare error = %v", res.err)
	}
	if _, err := os.Stat(filepath.Join(dir, "onionr.spec")); err != nil {
		t.Errorf("default mode should produce onionr.spec: %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.DefaultMode = ""
	res := runCLI(t, cfg, "prepare", path)
	if code := exitCode(t, res.err); code != types.ExitUsage {
		t.Errorf("prepare without any mode exit code = %d, want %d", code, types.ExitUsage)
	}
}

func TestPrepareCommand_Overwrite(t *testing.T) {
	t.Parallel()

	dir, path := writeManifest(t, testManifest)
	pkgbuild := filepath.Join(dir, "PKGBUILD")
	if err := os.WriteFile(pkgbuild, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, nil, "pkgbuild", path)
	if code := exitCode(t, res.err); code != types.ExitDeclined {
		t.Fatalf("exit code = %d, want %d", code, types.ExitDeclined)
	}
	var actionable *issue.ActionableError
	if !errors.As(res.err, &actionable) || actionable.Issue != issue.OverwriteDeclinedId {
		t.Errorf("error = %v, want overwrite-declined actionable error", res.err)
	}
	if data, _ := os.ReadFile(pkgbuild); string(data) != "old" {
		t.Error("declined overwrite modified PKGBUILD")
	}

	if res := runCLI(t, nil, "pkgbuild", path, "--yes"); res.err != nil {
		t.Fatalf("--yes error = %v", res.err)
	}
	if data, _ := os.ReadFile(pkgbuild); string(data) == "old" {
		t.Error("--yes should replace PKGBUILD")
	}

	cfg := config.DefaultConfig()
	cfg.Output.Overwrite = config.OverwriteAlways
	if res := runCLI(t, cfg, "pkgbuild", path); res.err != nil {
		t.Errorf("overwrite=always error = %v", res.err)
	}
}

func TestPrepareCommand_Errors(t *testing.T) {
	t.Parallel()

	_, good := writeManifest(t, testManifest)
	_, badName := writeManifest(t, "name: \"bad name!\"\n")
	_, malformed := writeManifest(t, "name: [oops\n")

	tests := []struct {
		name  string
		args  []string
		code  types.ExitCode
		issue issue.Id
	}{
		{"unsupported mode", []string{"prepare", "apk", good}, types.ExitUsage, issue.UnsupportedModeId},
		{"missing manifest", []string{"rpm", filepath.Join(t.TempDir(), "nope.yml")}, types.ExitFailure, issue.ManifestNotFoundId},
		{"invalid name", []string{"rpm", badName}, types.ExitInvalidManifest, issue.InvalidPackageNameId},
		{"malformed", []string{"rpm", malformed}, types.ExitInvalidManifest, issue.ManifestParseErrorId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, nil, tt.args...)
			if code := exitCode(t, res.err); code != tt.code {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.code, res.err)
			}
			var actionable *issue.ActionableError
			if !errors.As(res.err, &actionable) || actionable.Issue != tt.issue {
				t.Errorf("error = %v, want issue %d", res.err, tt.issue)
			}
		})
	}
}

func TestPrepareCommand_Build(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Parallel()

	dir, path := writeManifest(t, testManifest)
	cfg := config.DefaultConfig()
	cfg.Build.Rpm = `sh -c 'cp "$0" built.spec' {recipe}`

	res := runCLI(t, cfg, "rpm", path, "--build")
	if res.err != nil {
		t.Fatalf("--build error = %v (stderr: %s)", res.err, res.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "built.spec")); err != nil {
		t.Errorf("build command did not run in the output directory: %v", err)
	}

	cfg.Build.Rpm = "lazypkg-missing-build-tool"
	res = runCLI(t, cfg, "rpm", path, "--build", "--yes")
	if code := exitCode(t, res.err); code != types.ExitBuildFailed {
		t.Errorf("missing tool exit code = %d, want %d", code, types.ExitBuildFailed)
	}

	cfg.Build.Rpm = `sh -c 'exit 7'`
	res = runCLI(t, cfg, "rpm", path, "--build", "--yes")
	var actionable *issue.ActionableError
	if !errors.As(res.err, &actionable) || actionable.Issue != issue.BuildFailedId {
		t.Errorf("failing build error = %v, want build-failed issue", res.err)
	}
}

func TestPrepareCommand_BuildFlagsExclusive(t *testing.T) {
	t.Parallel()

	_, path := writeManifest(t, testManifest)
	if res := runCLI(t, nil, "rpm", path, "--build", "--no-build"); res.err == nil {
		t.Error("--build and --no-build together should fail")
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := runCLI(t, nil, "init", "onionr", "-o", dir)
	if res.err != nil {
		t.Fatalf("init error = %v", res.err)
	}
	path := filepath.Join(dir, "onionr.yml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("onionr.yml missing: %v", err)
	}

	// The sample must be usable as-is.
	if res := runCLI(t, nil, "check", path); res.err != nil {
		t.Errorf("check of sample error = %v\n%s", res.err, res.stdout)
	}

	res = runCLI(t, nil, "init", "onionr", "-o", dir)
	if code := exitCode(t, res.err); code != types.ExitDeclined {
		t.Errorf("second init exit code = %d, want %d", code, types.ExitDeclined)
	}

	if res := runCLI(t, nil, "init", "onionr", "-o", dir, "--format", "cue"); res.err != nil {
		t.Fatalf("init --format cue error = %v", res.err)
	}
	if res := runCLI(t, nil, "check", filepath.Join(dir, "onionr.cue")); res.err != nil {
		t.Errorf("check of CUE sample error = %v\n%s", res.err, res.stdout)
	}
}

func TestInitCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code types.ExitCode
	}{
		{"no name without terminal", []string{"init", "-o", dir}, types.ExitUsage},
		{"invalid name", []string{"init", "bad name!", "-o", dir}, types.ExitInvalidManifest},
		{"unknown format", []string{"init", "onionr", "-o", dir, "--format", "json"}, types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, nil, tt.args...)
			if code := exitCode(t, res.err); code != tt.code {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.code, res.err)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	_, path := writeManifest(t, testManifest)

	res := runCLI(t, nil, "check", path)
	if res.err != nil {
		t.Fatalf("check error = %v", res.err)
	}
	for _, mode := range recipe.Modes() {
		if !strings.Contains(res.stdout, mode.String()) {
			t.Errorf("check output should mention %s:\n%s", mode, res.stdout)
		}
	}

	res = runCLI(t, nil, "check", path, "--mode", "deb")
	if res.err != nil {
		t.Fatalf("check --mode deb error = %v", res.err)
	}
	if strings.Contains(res.stdout, "pkgbuild") {
		t.Errorf("check --mode deb should only report deb:\n%s", res.stdout)
	}

	res = runCLI(t, nil, "check", path, "--mode", "RPM")
	if res.err != nil {
		t.Fatalf("check --mode RPM error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "onionr.spec") {
		t.Errorf("check --mode RPM should report rpm:\n%s", res.stdout)
	}

	res = runCLI(t, nil, "check", path, "--mode", "apk")
	if code := exitCode(t, res.err); code != types.ExitInvalidManifest {
		t.Errorf("check --mode apk exit code = %d, want %d", code, types.ExitInvalidManifest)
	}
	if !errors.Is(res.err, errCheckFailed) {
		t.Errorf("error = %v, want errCheckFailed", res.err)
	}
}

func TestModesCommand(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "modes")
	if res.err != nil {
		t.Fatalf("modes error = %v", res.err)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	if len(lines) != len(recipe.Modes()) {
		t.Fatalf("modes printed %d lines, want %d:\n%s", len(lines), len(recipe.Modes()), res.stdout)
	}
	for i, mode := range recipe.Modes() {
		if !strings.HasPrefix(lines[i], mode.String()) {
			t.Errorf("line %d = %q, want it to start with %s", i, lines[i], mode)
		}
	}
}

func TestConfigShowCommand(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "config", "show")
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	if !strings.Contains(res.stdout, `default_mode: "pkgbuild"`) {
		t.Errorf("CUE output = %q", res.stdout)
	}

	res = runCLI(t, nil, "config", "show", "--format", "toml")
	if res.err != nil {
		t.Fatalf("config show --format toml error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "default_mode = ") {
		t.Errorf("TOML output = %q", res.stdout)
	}

	res = runCLI(t, nil, "config", "show", "--format", "ini")
	if code := exitCode(t, res.err); code != types.ExitUsage {
		t.Errorf("unknown format exit code = %d, want %d", code, types.ExitUsage)
	}
}
