// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/lazypkg/lazypkg/internal/issue"
	"github.com/lazypkg/lazypkg/pkg/cueutil"
	"github.com/lazypkg/lazypkg/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "lazypkg"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. LAZYPKG_SCRIPTS_INDENT.
	EnvPrefix = "LAZYPKG"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the lazypkg configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// decoded configuration and the path of the file it came from ("" when only
// defaults and environment were used).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return nil, "", issue.New(issue.ConfigLoadFailedId, "load configuration").
				On(path).
				Hint(
					"Verify the file path is correct",
					"Check that the file exists and is readable",
					"Use 'lazypkg config show' to see the default configuration",
				).
				Wrap(fmt.Errorf("config file not found: %s", path))
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", configFileError(path, err)
		}
		resolvedPath = path
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		candidates := []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			filepath.Join(opts.BaseDir.String(), ConfigFileName+"."+ConfigFileExt),
		}
		for _, path := range candidates {
			if !fileExists(path) {
				continue
			}
			if err := loadCUEIntoViper(v, path); err != nil {
				return nil, "", configFileError(path, err)
			}
			resolvedPath = path
			break
		}
		// No config file means defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so check the result again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.New(issue.ConfigLoadFailedId, "validate configuration").
			On(resolvedPath).
			Hint(
				"Check "+EnvPrefix+"_* environment variables for typos",
				"Run 'lazypkg config show' to inspect the effective configuration",
			).
			Wrap(errors.Join(errs...))
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("default_mode", defaults.DefaultMode.String())
	v.SetDefault("output.overwrite", defaults.Output.Overwrite.String())
	v.SetDefault("scripts.interpreter", defaults.Scripts.Interpreter)
	v.SetDefault("scripts.hook_interpreter", defaults.Scripts.HookInterpreter)
	v.SetDefault("scripts.indent", defaults.Scripts.Indent)
	v.SetDefault("build.pkgbuild", defaults.Build.Pkgbuild)
	v.SetDefault("build.deb", defaults.Build.Deb)
	v.SetDefault("build.rpm", defaults.Build.Rpm)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

func configFileError(path string, err error) error {
	return issue.New(issue.ConfigLoadFailedId, "load configuration").
		On(path).
		Hint(
			"Check that the file contains valid CUE syntax",
			"Verify the configuration values match the expected schema",
			"See 'lazypkg config --help' for configuration options",
		).
		Wrap(err)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath types.FilesystemPath) (string, error) {
	if configDirPath != "" {
		return configDirPath.String(), nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and merges
// its contents into Viper. All config fields are optional, so the document is
// not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file into dir (the platform
// config directory when dir is empty). It returns the file path and whether
// it was created; an existing file is left untouched.
func CreateDefaultConfig(dir types.FilesystemPath) (string, bool, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// lazypkg configuration file\n")
	sb.WriteString("// Environment variables prefixed with " + EnvPrefix + "_ override these values.\n\n")

	fmt.Fprintf(&sb, "default_mode: %q\n", cfg.DefaultMode)

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\toverwrite: %q\n", cfg.Output.Overwrite)
	sb.WriteString("}\n")

	sb.WriteString("\nscripts: {\n")
	fmt.Fprintf(&sb, "\tinterpreter:      %q\n", cfg.Scripts.Interpreter)
	fmt.Fprintf(&sb, "\thook_interpreter: %q\n", cfg.Scripts.HookInterpreter)
	fmt.Fprintf(&sb, "\tindent:           %d\n", cfg.Scripts.Indent)
	sb.WriteString("}\n")

	sb.WriteString("\nbuild: {\n")
	for _, entry := range []struct{ key, cmd string }{
		{"pkgbuild", cfg.Build.Pkgbuild},
		{"deb", cfg.Build.Deb},
		{"rpm", cfg.Build.Rpm},
	} {
		if entry.cmd != "" {
			fmt.Fprintf(&sb, "\t%s: %q\n", entry.key, entry.cmd)
		}
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders the configuration as TOML for `lazypkg config show --format toml`.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(data), nil
}
