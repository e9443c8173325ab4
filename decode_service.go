package gifplayer

import "image/color"

// DecodeService gives access to a decoded animation.
type DecodeService interface {
	// FrameCount returns the number of frames.
	FrameCount() int
	// Metadata returns the global metadata fields.
	Metadata() MetadataReader
	// Palette returns the global palette.
	Palette() (color.Palette, error)
	// Frame decodes the frame at index. The pixmap is PRGBA32 and
	// covers exactly the frame rectangle.
	Frame(index int) (*DecodedFrame, error)
	Close() error
}

// DecodedFrame is the raw pixel data and metadata fields of one frame.
type DecodedFrame struct {
	Pixmap   *Pixmap
	Metadata MetadataReader
}

// DecoderOpener opens a source by name.
type DecoderOpener interface {
	Open(source string) (DecodeService, error)
}
