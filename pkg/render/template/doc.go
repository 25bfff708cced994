// Package template defines the template engine seam used by text-based
// renderers. Package pongo provides the pongo2-backed implementation.
package template
