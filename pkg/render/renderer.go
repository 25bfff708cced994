package render

import (
	"context"
)

// Renderer turns the current section's view into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view SectionView) ([]byte, error)
}
