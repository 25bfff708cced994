package schema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Envelope is the wire shape returned by the form endpoint.
type Envelope struct {
	Form *FormSchema `json:"form" yaml:"form"`
}

// Decode parses the form endpoint payload ({"form": {...}}) and checks the
// resulting schema's integrity.
func Decode(data []byte) (FormSchema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return FormSchema{}, errors.New("schema: payload is empty")
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return FormSchema{}, fmt.Errorf("schema: decode payload: %w", err)
	}
	if env.Form == nil {
		return FormSchema{}, errors.New("schema: payload has no form")
	}
	if err := CheckIntegrity(*env.Form); err != nil {
		return FormSchema{}, err
	}
	return *env.Form, nil
}

// Document wraps a schema payload, its origin and the checked schema.
type Document struct {
	source Source
	raw    []byte
	schema FormSchema
}

// NewDocument decodes raw as JSON or YAML. Both the endpoint envelope and a
// bare schema are accepted so fixtures can be stored either way.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	parsed, err := parseDocument(raw, src.Location())
	if err != nil {
		return Document{}, err
	}
	if err := CheckIntegrity(parsed); err != nil {
		return Document{}, fmt.Errorf("schema: %s: %w", src.Location(), err)
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone, schema: parsed}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Schema returns a copy of the decoded schema.
func (d Document) Schema() FormSchema {
	return d.schema.Clone()
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// documentFile accepts the envelope and bare layouts in one pass.
type documentFile struct {
	Form      *FormSchema `json:"form" yaml:"form"`
	FormTitle string      `json:"formTitle" yaml:"formTitle"`
	Sections  []Section   `json:"sections" yaml:"sections"`
}

func (f documentFile) resolve() FormSchema {
	if f.Form != nil {
		return *f.Form
	}
	return FormSchema{FormTitle: f.FormTitle, Sections: f.Sections}
}

func parseDocument(data []byte, location string) (FormSchema, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc.resolve(), nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc.resolve(), nil
	}

	return FormSchema{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", location)
}
