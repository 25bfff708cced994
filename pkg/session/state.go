package session

import (
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// State is a point-in-time copy of the session.
type State struct {
	LoggedIn          bool
	RollNumber        string
	Schema            schema.FormSchema
	SectionIndex      int
	Values            form.Values
	Errors            form.Errors
	RegistrationError string
	LoginError        string
	Transitioning     bool
}

// Section returns the current section.
func (s State) Section() (schema.Section, bool) {
	if !s.LoggedIn {
		return schema.Section{}, false
	}
	return s.Schema.Section(s.SectionIndex)
}

// IsFirst reports whether the current section is the first one.
func (s State) IsFirst() bool {
	return s.SectionIndex == 0
}

// IsLast reports whether the current section is the terminal one.
func (s State) IsLast() bool {
	return s.LoggedIn && s.SectionIndex == len(s.Schema.Sections)-1
}
