package form

import (
	"sort"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Values maps field ids to their current answers.
type Values map[schema.FieldID]Value

// Get returns the value of id. Missing entries read as an empty Scalar.
func (v Values) Get(id schema.FieldID) Value {
	if val, ok := v[id]; ok && val != nil {
		return val
	}
	return Scalar("")
}

// Has reports whether id has an entry.
func (v Values) Has(id schema.FieldID) bool {
	_, ok := v[id]
	return ok
}

// Set overwrites the value of id.
func (v Values) Set(id schema.FieldID, value Value) {
	v[id] = value
}

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for id, val := range v {
		out[id] = Clone(val)
	}
	return out
}

// IDs returns the ids with an entry, sorted.
func (v Values) IDs() []schema.FieldID {
	ids := make([]schema.FieldID, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Payload converts the values into a plain map suitable for serialisation:
// scalars become strings and multi values become string slices.
func (v Values) Payload() map[string]any {
	out := make(map[string]any, len(v))
	for id, val := range v {
		switch typed := val.(type) {
		case Scalar:
			out[string(id)] = string(typed)
		case Multi:
			out[string(id)] = typed.Strings()
		}
	}
	return out
}
