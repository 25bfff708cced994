// Package tui drives the wizard from a terminal and renders sections as
// plain text.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Renderer implements render.Renderer with a plain-text section summary.
type Renderer struct {
	theme Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	s := settings{theme: DefaultTheme}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	return &Renderer{theme: s.theme}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the section header, each field with its value, and any
// inline errors.
func (r *Renderer) Render(ctx context.Context, view render.SectionView) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	if view.FormTitle != "" {
		fmt.Fprintf(&b, "%s\n", view.FormTitle)
	}
	fmt.Fprintf(&b, "[%d/%d] %s\n", view.Step, view.Total, view.Title)
	if view.Description != "" {
		fmt.Fprintf(&b, "%s\n", view.Description)
	}
	for _, field := range view.Fields {
		fmt.Fprintf(&b, "  %s: %s\n", fieldLabel(field), describeValue(field))
		if field.Error != "" {
			fmt.Fprintf(&b, "    %s%s\n", r.theme.ErrorPrefix, field.Error)
		}
	}
	return []byte(b.String()), nil
}

func fieldLabel(field render.FieldView) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func describeValue(field render.FieldView) string {
	switch c := field.Control.(type) {
	case schema.Unsupported:
		return unsupportedMessage(c.Type)
	case schema.Select:
		return optionLabels(field, c.Options)
	case schema.RadioGroup:
		return optionLabels(field, c.Options)
	case schema.CheckboxGroup:
		return optionLabels(field, c.Options)
	default:
		if text := field.Text(); text != "" {
			return text
		}
		return "-"
	}
}

func optionLabels(field render.FieldView, options []schema.Option) string {
	var labels []string
	for _, opt := range options {
		if field.Selected(opt.Value) {
			labels = append(labels, opt.Label)
		}
	}
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

func unsupportedMessage(t schema.FieldType) string {
	return fmt.Sprintf("Unknown field type: %s", t)
}
