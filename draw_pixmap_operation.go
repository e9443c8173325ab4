package gifplayer

import "image"

type drawPixmapOperation struct {
	top    image.Point
	pixmap *Pixmap
}

func (o *drawPixmapOperation) Draw(surface DrawingSurface) error {
	return surface.DrawPixmap(o.top, o.pixmap)
}

// NewDrawPixmapOperation creates an operation to draw the pixmap.
func NewDrawPixmapOperation(top image.Point, pixmap *Pixmap) DrawOperation {
	return &drawPixmapOperation{
		top:    top,
		pixmap: pixmap,
	}
}

type drawPackedPixmapOperation struct {
	top    image.Point
	pixmap *PackedPixmap
}

func (o *drawPackedPixmapOperation) Draw(surface DrawingSurface) error {
	pixmap, err := o.pixmap.Unpack()
	if err != nil {
		return err
	}
	return surface.DrawPixmap(o.top, pixmap)
}

// NewDrawPackedPixmapOperation creates an operation to draw the packed pixmap.
func NewDrawPackedPixmapOperation(top image.Point, pixmap *PackedPixmap) DrawOperation {
	return &drawPackedPixmapOperation{
		top:    top,
		pixmap: pixmap,
	}
}

type drawSurfaceOperation struct {
	src DrawingSurface
}

func (o *drawSurfaceOperation) Draw(surface DrawingSurface) error {
	return surface.DrawSurface(o.src)
}

// NewDrawSurfaceOperation creates an operation to draw src scaled over the
// whole target surface.
func NewDrawSurfaceOperation(src DrawingSurface) DrawOperation {
	return &drawSurfaceOperation{src}
}
