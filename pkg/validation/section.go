package validation

import (
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// ValidateSection runs the default validator over every field in section.
func ValidateSection(section schema.Section, values form.Values) form.Errors {
	return defaultValidator.Section(section, values)
}

// Section validates each field of section in schema order against its entry
// in values. Only failing fields appear in the result.
func (v *Validator) Section(section schema.Section, values form.Values) form.Errors {
	errs := make(form.Errors)
	for _, field := range section.Fields {
		errs.Set(field.FieldID, v.Field(field, values.Get(field.FieldID)))
	}
	return errs
}

// Form validates every section and merges the results.
func (v *Validator) Form(s schema.FormSchema, values form.Values) form.Errors {
	errs := make(form.Errors)
	for _, section := range s.Sections {
		for id, msg := range v.Section(section, values) {
			errs.Set(id, msg)
		}
	}
	return errs
}
