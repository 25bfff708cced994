package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// ErrNoSection is returned when the state has no section to display.
var ErrNoSection = errors.New("render: no section to display")

// SectionView carries everything a surface needs to draw the current step.
type SectionView struct {
	FormTitle     string
	RollNumber    string
	SectionID     int
	Title         string
	Description   string
	Step          int
	Total         int
	CanGoBack     bool
	IsLast        bool
	Transitioning bool
	Fields        []FieldView
}

// FieldView is one field of the section with its current value and error.
type FieldView struct {
	ID         schema.FieldID
	Label      string
	Type       schema.FieldType
	Required   bool
	Control    schema.Control
	Value      form.Value
	Error      string
	DataTestID string
}

// Text returns the scalar form of the value.
func (f FieldView) Text() string {
	if f.Value == nil {
		return ""
	}
	return f.Value.String()
}

// Selected reports whether option is chosen. Single-valued fields compare
// against the scalar value; checkbox groups test membership.
func (f FieldView) Selected(option string) bool {
	switch v := f.Value.(type) {
	case form.Multi:
		return v.Contains(option)
	case form.Scalar:
		return string(v) == option
	default:
		return false
	}
}

// BuildView derives the view of state's current section.
func BuildView(state session.State) (SectionView, error) {
	if !state.LoggedIn {
		return SectionView{}, fmt.Errorf("%w: not logged in", ErrNoSection)
	}
	section, ok := state.Section()
	if !ok {
		return SectionView{}, fmt.Errorf("%w: index %d of %d", ErrNoSection, state.SectionIndex, len(state.Schema.Sections))
	}

	view := SectionView{
		FormTitle:     state.Schema.FormTitle,
		RollNumber:    state.RollNumber,
		SectionID:     section.SectionID,
		Title:         section.Title,
		Description:   section.Description,
		Step:          state.SectionIndex + 1,
		Total:         len(state.Schema.Sections),
		CanGoBack:     !state.IsFirst(),
		IsLast:        state.IsLast(),
		Transitioning: state.Transitioning,
		Fields:        make([]FieldView, 0, len(section.Fields)),
	}
	for _, field := range section.Fields {
		view.Fields = append(view.Fields, FieldView{
			ID:         field.FieldID,
			Label:      field.Label,
			Type:       field.Type,
			Required:   field.Required,
			Control:    field.Control(),
			Value:      state.Values.Get(field.FieldID),
			Error:      state.Errors.Get(field.FieldID),
			DataTestID: field.DataTestID,
		})
	}
	return view, nil
}
