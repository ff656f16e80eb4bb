package domain

import (
	"errors"
	"fmt"
)

// ErrBranchNotFound is returned when an operation references an
// unregistered branch.
var ErrBranchNotFound = errors.New("branch not found")

// ErrUnknownEntity is returned when a slot is referenced outside the
// schema of the branch it is addressed in.
var ErrUnknownEntity = errors.New("entity not in branch schema")

// ErrSessionNotFound is returned when a session ID cannot be found in
// the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoAnalysis is returned when a turn operation runs before any
// utterance has been analyzed.
var ErrNoAnalysis = errors.New("no analysis recorded")

// ConfigError signals a branch or entity definition that can never
// work at runtime. It is raised at registration time, never silently
// substituted.
type ConfigError struct {
	Branch string
	Entity string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("invalid definition: branch %q entity %q: %s", e.Branch, e.Entity, e.Reason)
	}
	return fmt.Sprintf("invalid definition: branch %q: %s", e.Branch, e.Reason)
}

// TemplateError signals a question template referencing a placeholder
// with no corresponding value. It indicates a schema/question-text
// mismatch and is fatal for the prompt rather than producing a
// partially substituted string.
type TemplateError struct {
	Template    string
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: no value for placeholder %q", e.Template, e.Placeholder)
}
