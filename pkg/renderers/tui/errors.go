package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or chose to
	// quit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when the wizard has no prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
