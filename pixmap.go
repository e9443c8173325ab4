package gifplayer

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Pixmap contains a collection of pixels
type Pixmap struct {
	Data        []byte
	Width       int
	Height      int
	BytePerLine int
	PixFormat   PixelFormat
}

// NewPixmap creates a zeroed Pixmap of the given size.
func NewPixmap(width int, height int, pixFormat PixelFormat) *Pixmap {
	bytePerLine := width * GetPixelSize(pixFormat)
	return &Pixmap{
		Data:        make([]byte, bytePerLine*height),
		Width:       width,
		Height:      height,
		BytePerLine: bytePerLine,
		PixFormat:   pixFormat,
	}
}

// PixmapFromImage converts img to a PRGBA32 Pixmap. Straight-alpha sources
// are premultiplied on the way.
func PixmapFromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Pixmap{
		Data:        rgba.Pix,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		BytePerLine: rgba.Stride,
		PixFormat:   PRGBA32,
	}
}

// Validate checks that the pixel data covers the declared geometry.
func (pixmap *Pixmap) Validate() error {
	if pixmap.Width < 0 || pixmap.Height < 0 {
		return errors.New("Pixmap has negative size")
	}
	rowSize := pixmap.Width * GetPixelSize(pixmap.PixFormat)
	if pixmap.BytePerLine < rowSize {
		return errors.New("Pixmap stride is smaller than a row")
	}
	if pixmap.Height > 0 && len(pixmap.Data) < (pixmap.Height-1)*pixmap.BytePerLine+rowSize {
		return errors.New("Pixmap data is too short")
	}
	return nil
}

// Row returns the pixels of row y without padding.
func (pixmap *Pixmap) Row(y int) []byte {
	offset := y * pixmap.BytePerLine
	return pixmap.Data[offset : offset+pixmap.Width*GetPixelSize(pixmap.PixFormat)]
}

// Image returns an *image.RGBA sharing the pixmap memory. Only PRGBA32
// pixmaps can be viewed this way.
func (pixmap *Pixmap) Image() (*image.RGBA, error) {
	if pixmap.PixFormat != PRGBA32 {
		return nil, errUnsupportedPixelFormat
	}
	if err := pixmap.Validate(); err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    pixmap.Data,
		Stride: pixmap.BytePerLine,
		Rect:   image.Rect(0, 0, pixmap.Width, pixmap.Height),
	}, nil
}
