package form

import (
	"sort"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Errors maps field ids to their current validation message. Valid fields
// have no entry.
type Errors map[schema.FieldID]string

// Get returns the message for id, or "" when the field is valid.
func (e Errors) Get(id schema.FieldID) string {
	return e[id]
}

// Set records message for id; an empty message removes the entry.
func (e Errors) Set(id schema.FieldID, message string) {
	if message == "" {
		delete(e, id)
		return
	}
	e[id] = message
}

// Clear removes the entry for id.
func (e Errors) Clear(id schema.FieldID) {
	delete(e, id)
}

// Empty reports whether no field has an error.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Clone returns a copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for id, msg := range e {
		out[id] = msg
	}
	return out
}

// IDs returns the failing field ids, sorted.
func (e Errors) IDs() []schema.FieldID {
	ids := make([]schema.FieldID, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
