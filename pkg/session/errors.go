package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
)

var (
	// ErrMissingRollNumber is returned before any network call when the roll
	// number is blank.
	ErrMissingRollNumber = errors.New("session: roll number is required")
	// ErrNotLoggedIn is returned by form operations before a schema is loaded.
	ErrNotLoggedIn = errors.New("session: not logged in")
	// ErrUnknownField is returned for field ids absent from the schema.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrNotMultiValued is returned when toggling an option on a field that
	// does not collect a set.
	ErrNotMultiValued = errors.New("session: field does not accept multiple values")
	// ErrNotLastSection is returned by Submit outside the terminal section.
	ErrNotLastSection = errors.New("session: submit is only available on the last section")
	// ErrTransitionPending is returned by Submit while a section move has
	// not committed yet.
	ErrTransitionPending = errors.New("session: a section transition is pending")
	// ErrSuperseded is returned to a login whose result was discarded because
	// a newer login was issued.
	ErrSuperseded = errors.New("session: superseded by a newer login")
)

const (
	missingLoginMessage    = "Please enter your Roll Number to login."
	missingRegisterMessage = "Please enter your Roll Number to register."
)

// ValidationError reports the fields that blocked navigation or submission.
type ValidationError struct {
	SectionID int
	Errors    form.Errors
}

func (e *ValidationError) Error() string {
	ids := e.Errors.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return fmt.Sprintf("session: section %d has invalid fields: %s", e.SectionID, strings.Join(names, ", "))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
