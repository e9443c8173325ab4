package gifplayer

import (
	"image"
	"image/color"
)

type clearOperation struct {
	rect  image.Rectangle
	color color.Color
}

func (o *clearOperation) Draw(surface DrawingSurface) error {
	return surface.Clear(o.rect, o.color)
}

// NewClearDrawOperation creates an operation to clear the specified rectangle.
func NewClearDrawOperation(rect image.Rectangle, c color.Color) DrawOperation {
	return &clearOperation{rect, c}
}

// NewClearAllDrawOperation creates an operation to clear the whole surface.
func NewClearAllDrawOperation(surface DrawingSurface, c color.Color) DrawOperation {
	return &clearOperation{image.Rectangle{Max: surface.Size()}, c}
}
