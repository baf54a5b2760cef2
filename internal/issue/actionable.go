// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"
)

// ActionableError is a failure reported to the user: what lazypkg was doing,
// on which file, how to get past it, and which catalog page explains it.
//
//	return issue.New(issue.ConfigLoadFailedId, "load configuration").
//		On(path).
//		Hint("Check that the file contains valid CUE syntax").
//		Wrap(err)
type ActionableError struct {
	// Issue links the error to a catalog page rendered in verbose mode.
	Issue Id
	// Operation is a verb phrase such as "read manifest" or "write recipe".
	Operation string
	// Resource is the manifest, recipe or config path involved (optional).
	Resource string
	// Hints are the fixes offered to the user, most likely first.
	Hints []string
	// Err is the underlying failure (optional).
	Err error
}

// New starts an ActionableError for operation, linked to the catalog page id.
func New(id Id, operation string) *ActionableError {
	return &ActionableError{Issue: id, Operation: operation}
}

// On sets the resource the operation failed on.
func (e *ActionableError) On(resource string) *ActionableError {
	e.Resource = resource
	return e
}

// Hint appends fixes to offer the user.
func (e *ActionableError) Hint(hints ...string) *ActionableError {
	e.Hints = append(e.Hints, hints...)
	return e
}

// Wrap sets the underlying failure.
func (e *ActionableError) Wrap(err error) *ActionableError {
	e.Err = err
	return e
}

// Error returns "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var b strings.Builder
	b.WriteString("failed to " + e.Operation)
	if e.Resource != "" {
		b.WriteString(": " + e.Resource)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying failure.
func (e *ActionableError) Unwrap() error { return e.Err }

// Page returns the catalog page linked to the error, or nil.
func (e *ActionableError) Page() *Issue { return Get(e.Issue) }

// Format renders the error with its hints as a bullet list. Verbose output
// adds the cause chain; errors joining several causes list each one indented
// below them.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())
	if len(e.Hints) > 0 {
		b.WriteString("\n")
		for _, hint := range e.Hints {
			b.WriteString("\n  • " + hint)
		}
	}
	if verbose && e.Err != nil {
		b.WriteString("\n\nError chain:")
		writeChain(&b, e.Err, 1)
	}
	return b.String()
}

func writeChain(b *strings.Builder, err error, depth int) {
	for err != nil {
		fmt.Fprintf(b, "\n%s- %s", strings.Repeat("  ", depth), err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, cause := range u.Unwrap() {
				writeChain(b, cause, depth+1)
			}
			return
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return
		}
	}
}
