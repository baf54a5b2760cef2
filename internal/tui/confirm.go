// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/lazypkg/lazypkg/pkg/recipe"
	"github.com/lazypkg/lazypkg/pkg/types"
)

// Confirmer asks yes/no questions with huh confirm prompts.
type Confirmer struct {
	Config Config
}

// NewConfirmer returns a Confirmer using DefaultConfig.
func NewConfirmer() *Confirmer {
	return &Confirmer{Config: DefaultConfig()}
}

// Confirm asks title and returns the answer. def is preselected.
func (c *Confirmer) Confirm(ctx context.Context, title, description string, def bool) (bool, error) {
	answer := def
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if description != "" {
		field = field.Description(description)
	}

	if err := newForm(c.Config, field).RunWithContext(ctx); err != nil {
		return false, translateAbort(err)
	}
	return answer, nil
}

// ConfirmOverwrite asks whether the existing file at path may be replaced.
// The default answer is no.
func (c *Confirmer) ConfirmOverwrite(ctx context.Context, path types.FilesystemPath) (bool, error) {
	return c.Confirm(ctx, fmt.Sprintf("%s already exists. Overwrite it?", path), "", false)
}

// ConfirmBuild asks whether the native build tool should run for mode.
func (c *Confirmer) ConfirmBuild(ctx context.Context, mode recipe.Mode) (bool, error) {
	return c.Confirm(ctx, fmt.Sprintf("Build the %s package now?", mode), "", true)
}
