// Package formflow wires the form service client, session controller and
// renderers into ready-to-use sessions.
package formflow

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/internal/loader"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// LoaderOptions aliases the offline schema loader configuration.
type LoaderOptions = loader.Options

// NewHTTPSession returns a session backed by the hosted form service.
func NewHTTPSession(clientOptions []client.Option, options ...session.Option) *session.Controller {
	return session.New(client.NewHTTPService(clientOptions...), options...)
}

// NewOfflineSession loads a schema from src and returns a session that serves
// it to every roll number.
func NewOfflineSession(ctx context.Context, src schema.Source, loaderOptions LoaderOptions, options ...session.Option) (*session.Controller, error) {
	doc, err := LoadDocument(ctx, src, loaderOptions)
	if err != nil {
		return nil, err
	}
	return session.New(client.NewStaticService(doc.Schema()), options...), nil
}

// LoadDocument reads and checks an offline schema document.
func LoadDocument(ctx context.Context, src schema.Source, options LoaderOptions) (schema.Document, error) {
	return loader.New(options).Load(ctx, src)
}

// NewRegistry returns a registry holding the built-in html and tui renderers.
func NewRegistry(htmlOptions ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(htmlOptions...)
	if err != nil {
		return nil, fmt.Errorf("formflow: html renderer: %w", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tui.New())
	return registry, nil
}

// RenderSection renders the current section of ctrl with the named renderer.
func RenderSection(ctx context.Context, registry *render.Registry, name string, ctrl *session.Controller) ([]byte, error) {
	renderer, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	view, err := render.BuildView(ctrl.Snapshot())
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, view)
}
