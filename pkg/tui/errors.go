package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")

	// ErrDeclined is returned when the user answers no to the submit
	// confirmation.
	ErrDeclined = errors.New("tui: submit declined")

	// ErrTooManyAttempts is returned when a field is still invalid after the
	// configured number of prompts.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")

	// ErrNoPrompts is returned by New when there is nothing to ask.
	ErrNoPrompts = errors.New("tui: no prompts")
)

// ErrInvalid is returned when the form still has errors at submit time,
// for example on a field that has no prompt.
var ErrInvalid = errors.New("tui: form has errors")
