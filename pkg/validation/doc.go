// Package validation implements the local validation rules applied to wizard
// input. Field validation evaluates a fixed rule chain where the first failing
// rule wins; section validation collects the failures of every field in a
// section into a form.Errors map.
package validation
