package schema

import (
	"fmt"
	"strings"
)

// Problem describes one integrity violation. Path uses dotted section/field
// indices, e.g. "sections.1.fields.0".
type Problem struct {
	Path    string
	FieldID FieldID
	Message string
}

// IntegrityError is returned when a decoded schema cannot be used safely.
type IntegrityError struct {
	Problems []Problem
}

func (e *IntegrityError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "schema: integrity check failed"
	}
	parts := make([]string, 0, len(e.Problems))
	for _, problem := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", problem.Path, problem.Message))
	}
	return "schema: integrity check failed: " + strings.Join(parts, "; ")
}

// CheckIntegrity verifies that the schema has at least one section and that
// every field carries a non-empty id unique across the whole schema.
func CheckIntegrity(s FormSchema) error {
	var problems []Problem
	if len(s.Sections) == 0 {
		problems = append(problems, Problem{
			Path:    "sections",
			Message: "schema declares no sections",
		})
	}

	seen := make(map[FieldID]string)
	for si, section := range s.Sections {
		for fi, field := range section.Fields {
			path := fmt.Sprintf("sections.%d.fields.%d", si, fi)
			id := field.FieldID
			if strings.TrimSpace(string(id)) == "" {
				problems = append(problems, Problem{
					Path:    path,
					Message: "field id is empty",
				})
				continue
			}
			if first, exists := seen[id]; exists {
				problems = append(problems, Problem{
					Path:    path,
					FieldID: id,
					Message: fmt.Sprintf("duplicate field id %q (first declared at %s)", id, first),
				})
				continue
			}
			seen[id] = path
		}
	}

	if len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}
