package schema

// FieldID identifies a field within a schema. Ids are unique across every
// section of a checked schema.
type FieldID string

// FieldType is the closed set of field kinds a schema may declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTel      FieldType = "tel"
	FieldTypeEmail    FieldType = "email"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Known reports whether the type belongs to the supported set. Unknown types
// still decode so renderers can surface a placeholder for them.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTel, FieldTypeEmail, FieldTypeDate,
		FieldTypeTextArea, FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// MultiValued reports whether the field collects a set of option values
// rather than a single string.
func (t FieldType) MultiValued() bool {
	return t == FieldTypeCheckbox
}

// Option is a fixed choice offered by dropdown, radio and checkbox fields.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// ValidationMessage overrides every default validation message of a field.
type ValidationMessage struct {
	Message string `json:"message" yaml:"message"`
}

// Field is one data-entry element. MinLength and MaxLength are unset when
// zero.
type Field struct {
	FieldID     FieldID            `json:"fieldId" yaml:"fieldId"`
	Label       string             `json:"label" yaml:"label"`
	Type        FieldType          `json:"type" yaml:"type"`
	Required    bool               `json:"required" yaml:"required"`
	MinLength   int                `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   int                `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Placeholder string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option           `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *ValidationMessage `json:"validation,omitempty" yaml:"validation,omitempty"`
	DataTestID  string             `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// CustomMessage returns the schema-provided validation message, if any.
func (f Field) CustomMessage() string {
	if f.Validation == nil {
		return ""
	}
	return f.Validation.Message
}

// HasOption reports whether value is one of the field's declared options.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Section is a single step of the wizard.
type Section struct {
	SectionID   int     `json:"sectionId" yaml:"sectionId"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// FormSchema is the declarative form fetched for a user. Treat it as
// immutable once decoded; use Clone before handing it to other owners.
type FormSchema struct {
	FormTitle string    `json:"formTitle" yaml:"formTitle"`
	Sections  []Section `json:"sections" yaml:"sections"`
}

// Section returns the section at index.
func (s FormSchema) Section(index int) (Section, bool) {
	if index < 0 || index >= len(s.Sections) {
		return Section{}, false
	}
	return s.Sections[index], true
}

// Field looks up a field by id across all sections.
func (s FormSchema) Field(id FieldID) (Field, bool) {
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.FieldID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// FieldIDs lists every field id in schema order.
func (s FormSchema) FieldIDs() []FieldID {
	var ids []FieldID
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			ids = append(ids, field.FieldID)
		}
	}
	return ids
}

// Clone returns a deep copy.
func (s FormSchema) Clone() FormSchema {
	out := FormSchema{FormTitle: s.FormTitle}
	if s.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		clone := section
		if section.Fields != nil {
			clone.Fields = make([]Field, len(section.Fields))
			for j, field := range section.Fields {
				clone.Fields[j] = field.clone()
			}
		}
		out.Sections[i] = clone
	}
	return out
}

func (f Field) clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Validation != nil {
		msg := *f.Validation
		out.Validation = &msg
	}
	return out
}
