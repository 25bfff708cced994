package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// LoadDocument reads a schema fixture from disk. Failures stop the test.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T so
// fixtures can be prepared in setup functions.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// LoadSchema is LoadDocument followed by Schema.
func LoadSchema(t *testing.T, path string) schema.FormSchema {
	t.Helper()
	return LoadDocument(t, path).Schema()
}

// SingleFieldSchema is a one-section schema with a required text field
// "name" labelled "Name".
func SingleFieldSchema() schema.FormSchema {
	return schema.FormSchema{
		FormTitle: "Registration",
		Sections: []schema.Section{{
			SectionID: 1,
			Title:     "About you",
			Fields: []schema.Field{{
				FieldID:  "name",
				Label:    "Name",
				Type:     schema.FieldTypeText,
				Required: true,
			}},
		}},
	}
}

// WizardSchema is a three-section schema that uses every supported field
// type.
func WizardSchema() schema.FormSchema {
	return schema.FormSchema{
		FormTitle: "Student Survey",
		Sections: []schema.Section{
			{
				SectionID:   1,
				Title:       "Contact",
				Description: "How can we reach you?",
				Fields: []schema.Field{
					{FieldID: "fullName", Label: "Full Name", Type: schema.FieldTypeText, Required: true, MinLength: 2, MaxLength: 40, Placeholder: "Jane Doe", DataTestID: "full-name"},
					{FieldID: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
					{FieldID: "phone", Label: "Phone", Type: schema.FieldTypeTel, MaxLength: 10, Validation: &schema.ValidationMessage{Message: "Use up to 10 digits."}},
				},
			},
			{
				SectionID: 2,
				Title:     "Background",
				Fields: []schema.Field{
					{FieldID: "dob", Label: "Date of Birth", Type: schema.FieldTypeDate},
					{FieldID: "year", Label: "Year", Type: schema.FieldTypeDropdown, Required: true, Options: []schema.Option{
						{Value: "1", Label: "First"},
						{Value: "2", Label: "Second"},
					}},
					{FieldID: "mode", Label: "Mode", Type: schema.FieldTypeRadio, Options: []schema.Option{
						{Value: "online", Label: "Online"},
						{Value: "campus", Label: "On campus"},
					}},
				},
			},
			{
				SectionID: 3,
				Title:     "Interests",
				Fields: []schema.Field{
					{FieldID: "topics", Label: "Topics", Type: schema.FieldTypeCheckbox, Required: true, Options: []schema.Option{
						{Value: "go", Label: "Go"},
						{Value: "web", Label: "Web"},
						{Value: "data", Label: "Data"},
					}},
					{FieldID: "notes", Label: "Notes", Type: schema.FieldTypeTextArea, MaxLength: 200},
				},
			},
		},
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
