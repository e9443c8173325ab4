package gifplayer

import (
	"image"
	"image/color"
)

// DrawingSurface is the interface definition for drawing.
//
// Drawing calls between Begin and End form one transaction: nothing is
// visible on the surface until End succeeds, and a failed End leaves the
// surface as it was before Begin.
type DrawingSurface interface {
	Size() image.Point
	Begin() error
	Clear(rect image.Rectangle, c color.Color) error
	DrawPixmap(top image.Point, pixmap *Pixmap) error
	// DrawSurface draws src scaled to the bounds of the receiver.
	DrawSurface(src DrawingSurface) error
	End() error
	// CopyFrom replaces the whole backing bitmap with the content of src.
	// It must not be called inside a transaction.
	CopyFrom(src DrawingSurface) error
	Close() error
}

// GraphicsDevice allocates drawing surfaces and copies them into
// CPU-readable staging buffers.
type GraphicsDevice interface {
	NewSurface(width int, height int) (DrawingSurface, error)
	Stage(src DrawingSurface, pixFormat PixelFormat) (*StagingBuffer, error)
}

// StagingBuffer is a CPU-readable copy of a surface.
//
// A negative Stride means rows are stored bottom-up: the first row of the
// image is the last row in Pix.
type StagingBuffer struct {
	Pix       []byte
	Width     int
	Height    int
	Stride    int
	PixFormat PixelFormat
}

// RowOffset returns the offset in Pix of image row y.
func (b *StagingBuffer) RowOffset(y int) int {
	if b.Stride < 0 {
		return (b.Height - 1 - y) * -b.Stride
	}
	return y * b.Stride
}
