// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrLint is the sentinel error wrapped by LintError.
var ErrLint = errors.New("generated shell does not parse")

// LintError reports a generated shell file that bash would reject.
type LintError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *LintError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns ErrLint and the parser error.
func (e *LintError) Unwrap() []error { return []error{ErrLint, e.Err} }

// Lint parses f with a bash parser. Files that are not shell scripts are
// accepted without inspection.
func Lint(f File) error {
	if !f.Shell {
		return nil
	}
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(f.Content), f.Name); err != nil {
		return &LintError{File: f.Name, Err: err}
	}
	return nil
}

// LintAll lints every file of o and joins the failures.
func (o *Output) LintAll() error {
	var errs []error
	for _, f := range o.Files {
		if err := Lint(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
