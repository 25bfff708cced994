package navigation

import "errors"

var (
	// ErrNoSections is returned when the navigator has nothing to navigate.
	ErrNoSections = errors.New("navigation: no sections")
	// ErrLastSection is returned by Next on the terminal section.
	ErrLastSection = errors.New("navigation: already on the last section")
	// ErrFirstSection is returned by Previous on the first section.
	ErrFirstSection = errors.New("navigation: already on the first section")
)
