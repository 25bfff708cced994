// Package navigation tracks the current section of a multi-section wizard.
//
// The navigator only enforces index bounds; callers gate forward movement on
// validation before calling Next. Moves are committed after a configurable
// delay (used by renderers for visual transitions). A new request supersedes
// a pending one and the target is always computed from the committed index,
// so repeated rapid requests never skip a section.
package navigation
