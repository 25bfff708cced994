package validation

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// SchemaIssue represents a schema problem with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaReport captures the outcome of checking a schema payload before it
// is handed to a session.
type SchemaReport struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// CheckSchema decodes raw (JSON or YAML, bare or enveloped) and reports
// every integrity problem found.
func CheckSchema(src schema.Source, raw []byte) SchemaReport {
	if src == nil {
		src = schema.SourceFromFS("schema.json")
	}
	if _, err := schema.NewDocument(src, raw); err != nil {
		return SchemaReport{Valid: false, Issues: issuesFromError(err)}
	}
	return SchemaReport{Valid: true}
}

func issuesFromError(err error) []SchemaIssue {
	if err == nil {
		return []SchemaIssue{{Message: "unknown error"}}
	}

	var integrity *schema.IntegrityError
	if errors.As(err, &integrity) && len(integrity.Problems) > 0 {
		issues := make([]SchemaIssue, 0, len(integrity.Problems))
		for _, problem := range integrity.Problems {
			issues = append(issues, SchemaIssue{
				Path:    problem.Path,
				Field:   string(problem.FieldID),
				Message: strings.TrimSpace(problem.Message),
			})
		}
		return issues
	}

	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "schema: ")
	return []SchemaIssue{{Message: strings.TrimSpace(msg)}}
}
