// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"
)

// Input asks for one line of text. validate, when non-nil, keeps the prompt
// open until it accepts the trimmed answer.
func Input(ctx context.Context, cfg Config, title, placeholder string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(func(s string) error {
			return validate(strings.TrimSpace(s))
		})
	}

	if err := newForm(cfg, field).RunWithContext(ctx); err != nil {
		return "", translateAbort(err)
	}
	return strings.TrimSpace(value), nil
}
