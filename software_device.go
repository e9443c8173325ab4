package gifplayer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const startCmdCapacity = 8

type cmdCode int

const (
	ccClearRect cmdCode = iota
	ccDrawPixmap
	ccDrawSurface
)

type surfaceCmd struct {
	code   cmdCode
	rect   image.Rectangle
	color  color.Color
	pixmap *image.RGBA
	src    *softwareSurface
}

// SoftwareDevice is a GraphicsDevice that renders into alpha-premultiplied
// RGBA memory.
type SoftwareDevice struct {
	// BottomUp makes Stage report bottom-up staging buffers with a negative
	// stride, the way some hardware backends do.
	BottomUp bool

	// Scaler is used when a surface is drawn onto a surface of a
	// different size. It defaults to draw.BiLinear.
	Scaler draw.Scaler
}

// NewSoftwareDevice creates a SoftwareDevice
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{Scaler: draw.BiLinear}
}

// NewSurface allocates a transparent surface.
func (d *SoftwareDevice) NewSurface(width int, height int) (DrawingSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("Invalid surface size %dx%d", width, height)
	}
	scaler := d.Scaler
	if scaler == nil {
		scaler = draw.BiLinear
	}
	return &softwareSurface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		scaler: scaler,
		cmds:   make([]surfaceCmd, 0, startCmdCapacity),
	}, nil
}

// Stage copies src into a new staging buffer in pixFormat.
func (d *SoftwareDevice) Stage(src DrawingSurface, pixFormat PixelFormat) (*StagingBuffer, error) {
	s, err := asSoftwareSurface(src)
	if err != nil {
		return nil, err
	}
	if s.closed {
		return nil, ErrSurfaceClosed
	}

	width := s.img.Rect.Dx()
	height := s.img.Rect.Dy()
	stride := width * GetPixelSize(pixFormat)
	staging := &StagingBuffer{
		Pix:       make([]byte, stride*height),
		Width:     width,
		Height:    height,
		Stride:    stride,
		PixFormat: pixFormat,
	}
	if d.BottomUp {
		staging.Stride = -stride
	}

	for y := 0; y < height; y++ {
		srcRow := s.img.Pix[y*s.img.Stride : y*s.img.Stride+width*4]
		offset := staging.RowOffset(y)
		if err := ConvertRow(staging.Pix[offset:offset+stride], pixFormat, srcRow, PRGBA32, width); err != nil {
			return nil, err
		}
	}
	return staging, nil
}

func asSoftwareSurface(surface DrawingSurface) (*softwareSurface, error) {
	s, ok := surface.(*softwareSurface)
	if !ok {
		return nil, fmt.Errorf("Surface %T does not belong to the software device", surface)
	}
	return s, nil
}

type softwareSurface struct {
	img    *image.RGBA
	scaler draw.Scaler

	isActive bool
	closed   bool
	cmds     []surfaceCmd
	cmdErr   error
}

func (s *softwareSurface) Size() image.Point {
	return s.img.Rect.Size()
}

func (s *softwareSurface) Begin() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if s.isActive {
		return ErrSurfaceActive
	}

	s.isActive = true
	return nil
}

func (s *softwareSurface) Clear(rect image.Rectangle, c color.Color) error {
	if !s.isActive {
		return ErrSurfaceNotActive
	}
	if c == nil {
		c = color.Transparent
	}

	s.cmds = append(s.cmds, surfaceCmd{code: ccClearRect, rect: rect, color: c})
	return nil
}

func (s *softwareSurface) DrawPixmap(top image.Point, pixmap *Pixmap) error {
	if !s.isActive {
		return ErrSurfaceNotActive
	}

	img, err := pixmap.Image()
	if err != nil {
		return s.fail(err)
	}

	rect := image.Rect(top.X, top.Y, top.X+pixmap.Width, top.Y+pixmap.Height)
	s.cmds = append(s.cmds, surfaceCmd{code: ccDrawPixmap, rect: rect, pixmap: img})
	return nil
}

func (s *softwareSurface) DrawSurface(src DrawingSurface) error {
	if !s.isActive {
		return ErrSurfaceNotActive
	}

	srcSurface, err := asSoftwareSurface(src)
	if err != nil {
		return s.fail(err)
	}
	if srcSurface == s {
		return s.fail(errors.New("Surface cannot be drawn onto itself"))
	}

	s.cmds = append(s.cmds, surfaceCmd{code: ccDrawSurface, rect: s.img.Rect, src: srcSurface})
	return nil
}

func (s *softwareSurface) End() error {
	if !s.isActive {
		return ErrSurfaceNotActive
	}

	defer func() {
		s.cmds = s.cmds[:0]
		s.cmdErr = nil
		s.isActive = false
	}()

	if s.cmdErr != nil {
		return s.cmdErr
	}
	for _, cmd := range s.cmds {
		if cmd.code == ccDrawSurface && cmd.src.closed {
			return ErrSurfaceClosed
		}
	}

	for _, cmd := range s.cmds {
		switch cmd.code {
		case ccClearRect:
			draw.Draw(s.img, cmd.rect, image.NewUniform(cmd.color), image.Point{}, draw.Src)
		case ccDrawPixmap:
			draw.Draw(s.img, cmd.rect, cmd.pixmap, image.Point{}, draw.Over)
		case ccDrawSurface:
			if cmd.src.img.Rect.Eq(s.img.Rect) {
				draw.Draw(s.img, cmd.rect, cmd.src.img, image.Point{}, draw.Over)
			} else {
				s.scaler.Scale(s.img, cmd.rect, cmd.src.img, cmd.src.img.Rect, draw.Over, nil)
			}
		}
	}
	return nil
}

func (s *softwareSurface) CopyFrom(src DrawingSurface) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if s.isActive {
		return ErrSurfaceActive
	}

	srcSurface, err := asSoftwareSurface(src)
	if err != nil {
		return err
	}
	if srcSurface.closed {
		return ErrSurfaceClosed
	}
	if !srcSurface.img.Rect.Eq(s.img.Rect) {
		return fmt.Errorf("Surface size mismatch: %v != %v", srcSurface.img.Rect, s.img.Rect)
	}

	copy(s.img.Pix, srcSurface.img.Pix)
	return nil
}

func (s *softwareSurface) Close() error {
	s.closed = true
	s.cmds = nil
	return nil
}

// fail records the first error of the open transaction; End reports it
// and discards the batch.
func (s *softwareSurface) fail(err error) error {
	if s.cmdErr == nil {
		s.cmdErr = err
	}
	return err
}
