// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazypkg/lazypkg/internal/buildtool"
	"github.com/lazypkg/lazypkg/pkg/recipe"
)

const (
	// OverwritePrompt asks before replacing an existing recipe file.
	OverwritePrompt OverwritePolicy = "prompt"
	// OverwriteAlways replaces existing files without asking.
	OverwriteAlways OverwritePolicy = "always"
	// OverwriteNever refuses to replace existing files.
	OverwriteNever OverwritePolicy = "never"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// RecipePlaceholder is replaced by the primary recipe path in build commands.
	RecipePlaceholder = buildtool.RecipePlaceholder

	maxIndent = 16
)

var (
	// ErrInvalidOverwritePolicy is returned when an OverwritePolicy value is not recognized.
	ErrInvalidOverwritePolicy = errors.New("invalid overwrite policy")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidScriptsConfig is the sentinel error wrapped by InvalidScriptsConfigError.
	ErrInvalidScriptsConfig = errors.New("invalid scripts config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OverwritePolicy controls what happens when a generated file already exists.
	OverwritePolicy string

	// InvalidOverwritePolicyError is returned when an OverwritePolicy value is not recognized.
	// It wraps ErrInvalidOverwritePolicy for errors.Is() compatibility.
	InvalidOverwritePolicyError struct {
		Value OverwritePolicy
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidScriptsConfigError is returned when a ScriptsConfig has invalid fields.
	InvalidScriptsConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultMode is used by `lazypkg prepare` when no mode argument is given.
		DefaultMode recipe.Mode `json:"default_mode" mapstructure:"default_mode" toml:"default_mode"`
		// Output configures how recipe files are written.
		Output OutputConfig `json:"output" mapstructure:"output" toml:"output"`
		// Scripts configures how manifest scripts are invoked from recipes.
		Scripts ScriptsConfig `json:"scripts" mapstructure:"scripts" toml:"scripts"`
		// Build holds the native build command per mode.
		Build BuildConfig `json:"build" mapstructure:"build" toml:"build"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// OutputConfig configures recipe output.
	OutputConfig struct {
		Overwrite OverwritePolicy `json:"overwrite" mapstructure:"overwrite" toml:"overwrite"`
	}

	// ScriptsConfig configures script invocation.
	ScriptsConfig struct {
		// Interpreter runs pre_build, build and post_build scripts.
		Interpreter string `json:"interpreter" mapstructure:"interpreter" toml:"interpreter"`
		// HookInterpreter runs install, upgrade and remove scripts.
		HookInterpreter string `json:"hook_interpreter" mapstructure:"hook_interpreter" toml:"hook_interpreter"`
		// Indent is the indentation width inside generated shell functions.
		Indent int `json:"indent" mapstructure:"indent" toml:"indent"`
	}

	// BuildConfig holds the command run by `--build` for each mode.
	// RecipePlaceholder in a command is replaced by the recipe path.
	BuildConfig struct {
		Pkgbuild string `json:"pkgbuild" mapstructure:"pkgbuild" toml:"pkgbuild"`
		Deb      string `json:"deb" mapstructure:"deb" toml:"deb"`
		Rpm      string `json:"rpm" mapstructure:"rpm" toml:"rpm"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode: recipe.ModePkgbuild,
		Output: OutputConfig{
			Overwrite: OverwritePrompt,
		},
		Scripts: ScriptsConfig{
			Interpreter:     "sh",
			HookInterpreter: "sh",
			Indent:          recipe.DefaultIndent,
		},
		Build: BuildConfig{
			Pkgbuild: "makepkg -f",
			Deb:      "dpkg-buildpackage -us -uc -b",
			Rpm:      "rpmbuild -bb --build-in-place " + RecipePlaceholder,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Commands returns the build commands keyed by mode.
func (c BuildConfig) Commands() map[recipe.Mode]string {
	commands := make(map[recipe.Mode]string, len(recipe.Modes()))
	for _, mode := range recipe.Modes() {
		commands[mode] = c.Command(mode)
	}
	return commands
}

// Command returns the configured build command for mode, or "" when none is set.
func (c BuildConfig) Command(mode recipe.Mode) string {
	switch mode {
	case recipe.ModePkgbuild:
		return c.Pkgbuild
	case recipe.ModeDeb:
		return c.Deb
	case recipe.ModeRpm:
		return c.Rpm
	default:
		return ""
	}
}

// RecipeOptions converts the scripts section into generation options.
func (c ScriptsConfig) RecipeOptions() (recipe.Options, error) {
	interpreter, err := recipe.InterpreterPrefix(c.Interpreter)
	if err != nil {
		return recipe.Options{}, fmt.Errorf("scripts.interpreter: %w", err)
	}
	hookInterpreter, err := recipe.InterpreterPrefix(c.HookInterpreter)
	if err != nil {
		return recipe.Options{}, fmt.Errorf("scripts.hook_interpreter: %w", err)
	}
	return recipe.Options{
		Interpreter:     interpreter,
		HookInterpreter: hookInterpreter,
		Indent:          c.Indent,
	}, nil
}

// IsValid returns whether the ScriptsConfig has valid fields.
func (c ScriptsConfig) IsValid() (bool, []error) {
	var errs []error
	if _, err := c.RecipeOptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Indent < 0 || c.Indent > maxIndent {
		errs = append(errs, fmt.Errorf("scripts.indent: %d is outside 0..%d", c.Indent, maxIndent))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidScriptsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptsConfigError.
func (e *InvalidScriptsConfigError) Error() string {
	return fmt.Sprintf("invalid scripts config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidScriptsConfig and the field errors for errors.Is() compatibility.
func (e *InvalidScriptsConfigError) Unwrap() []error {
	return append([]error{ErrInvalidScriptsConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
// An empty DefaultMode is allowed and means "ask on the command line".
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.DefaultMode != "" {
		if err := c.DefaultMode.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("default_mode: %w", err))
		}
	}
	if valid, fieldErrs := c.Output.Overwrite.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Scripts.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the OverwritePolicy.
func (p OverwritePolicy) String() string { return string(p) }

// IsValid returns whether the OverwritePolicy is one of the defined policies.
func (p OverwritePolicy) IsValid() (bool, []error) {
	switch p {
	case OverwritePrompt, OverwriteAlways, OverwriteNever:
		return true, nil
	default:
		return false, []error{&InvalidOverwritePolicyError{Value: p}}
	}
}

// Error implements the error interface.
func (e *InvalidOverwritePolicyError) Error() string {
	return fmt.Sprintf("invalid overwrite policy %q (valid: prompt, always, never)", e.Value)
}

// Unwrap returns ErrInvalidOverwritePolicy for errors.Is() compatibility.
func (e *InvalidOverwritePolicyError) Unwrap() error { return ErrInvalidOverwritePolicy }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
