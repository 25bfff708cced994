package schema

// DefaultSelectPlaceholder is the empty entry offered by dropdown controls.
const DefaultSelectPlaceholder = "Select an option"

// Control is the render instruction derived from a field's type. The set of
// implementations is closed; switch over it exhaustively:
//
//	switch c := field.Control().(type) {
//	case schema.TextInput:
//	case schema.TextArea:
//	case schema.Select:
//	case schema.RadioGroup:
//	case schema.CheckboxGroup:
//	case schema.Unsupported:
//	}
type Control interface {
	control()
}

// TextInput is a single-line input for text, tel, email and date fields.
type TextInput struct {
	InputType   FieldType
	MinLength   int
	MaxLength   int
	Placeholder string
}

// TextArea is a multi-line text input.
type TextArea struct {
	MinLength   int
	MaxLength   int
	Placeholder string
}

// Select is a single-select dropdown with a leading empty entry.
type Select struct {
	Placeholder string
	Options     []Option
}

// RadioGroup is a single-select group of options.
type RadioGroup struct {
	Options []Option
}

// CheckboxGroup is a multi-select group of options.
type CheckboxGroup struct {
	Options []Option
}

// Unsupported marks a field whose type is outside the known set.
type Unsupported struct {
	Type FieldType
}

func (TextInput) control()     {}
func (TextArea) control()      {}
func (Select) control()        {}
func (RadioGroup) control()    {}
func (CheckboxGroup) control() {}
func (Unsupported) control()   {}

// Control derives the render instruction for the field. Each variant only
// carries the attributes relevant to it.
func (f Field) Control() Control {
	switch f.Type {
	case FieldTypeText, FieldTypeTel, FieldTypeEmail, FieldTypeDate:
		return TextInput{
			InputType:   f.Type,
			MinLength:   f.MinLength,
			MaxLength:   f.MaxLength,
			Placeholder: f.Placeholder,
		}
	case FieldTypeTextArea:
		return TextArea{
			MinLength:   f.MinLength,
			MaxLength:   f.MaxLength,
			Placeholder: f.Placeholder,
		}
	case FieldTypeDropdown:
		return Select{
			Placeholder: DefaultSelectPlaceholder,
			Options:     append([]Option(nil), f.Options...),
		}
	case FieldTypeRadio:
		return RadioGroup{Options: append([]Option(nil), f.Options...)}
	case FieldTypeCheckbox:
		return CheckboxGroup{Options: append([]Option(nil), f.Options...)}
	default:
		return Unsupported{Type: f.Type}
	}
}
