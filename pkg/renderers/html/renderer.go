// Package html renders the current wizard section as an HTML form fragment.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/pongo"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const sectionTemplate = "section"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	action           string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// section.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDescriptionPolicy overrides the sanitiser applied to section
// descriptions.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithAction renders the form with method="post" and the given action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	action    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = defaultDescriptionPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, policy: cfg.policy, action: cfg.action}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the section markup.
func (r *Renderer) Render(ctx context.Context, view render.SectionView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(sectionTemplate, r.context(view))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render section %d: %w", view.SectionID, err)
	}
	return []byte(result), nil
}

func (r *Renderer) context(view render.SectionView) map[string]any {
	fields := make([]map[string]any, 0, len(view.Fields))
	for _, field := range view.Fields {
		fields = append(fields, r.field(field))
	}
	return map[string]any{
		"action":        r.action,
		"form_title":    plainText(view.FormTitle),
		"section_id":    view.SectionID,
		"title":         plainText(view.Title),
		"description":   strings.TrimSpace(r.policy.Sanitize(view.Description)),
		"step":          view.Step,
		"total":         view.Total,
		"can_go_back":   view.CanGoBack,
		"is_last":       view.IsLast,
		"transitioning": view.Transitioning,
		"fields":        fields,
	}
}

func (r *Renderer) field(field render.FieldView) map[string]any {
	out := map[string]any{
		"id":       string(field.ID),
		"label":    plainText(field.Label),
		"required": field.Required,
		"error":    field.Error,
		"test_id":  field.DataTestID,
		"value":    field.Text(),
	}

	switch c := field.Control.(type) {
	case schema.TextInput:
		out["kind"] = "input"
		out["input_type"] = string(c.InputType)
		out["min_length"] = c.MinLength
		out["max_length"] = c.MaxLength
		out["placeholder"] = plainText(c.Placeholder)
	case schema.TextArea:
		out["kind"] = "textarea"
		out["min_length"] = c.MinLength
		out["max_length"] = c.MaxLength
		out["placeholder"] = plainText(c.Placeholder)
	case schema.Select:
		out["kind"] = "select"
		out["placeholder"] = c.Placeholder
		out["options"] = options(field, c.Options)
	case schema.RadioGroup:
		out["kind"] = "radio"
		out["options"] = options(field, c.Options)
	case schema.CheckboxGroup:
		out["kind"] = "checkbox"
		out["options"] = options(field, c.Options)
	case schema.Unsupported:
		out["kind"] = "unsupported"
		out["unknown_type"] = string(c.Type)
	default:
		out["kind"] = "unsupported"
		out["unknown_type"] = string(field.Type)
	}
	return out
}

func options(field render.FieldView, opts []schema.Option) []map[string]any {
	out := make([]map[string]any, 0, len(opts))
	for _, opt := range opts {
		out = append(out, map[string]any{
			"value":    opt.Value,
			"label":    plainText(opt.Label),
			"test_id":  opt.DataTestID,
			"selected": field.Selected(opt.Value),
		})
	}
	return out
}
