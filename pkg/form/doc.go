// Package form holds the in-progress answer set of a wizard session and the
// per-field validation error display state. Values are typed: single-valued
// fields hold a Scalar, checkbox groups hold a Multi.
package form
