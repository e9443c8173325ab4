package display

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/rmcsoft/gifplayer"
	drm "github.com/rmcsoft/godrm"
	"github.com/rmcsoft/godrm/mode"
)

type framebuffer struct {
	handle      uint32
	id          uint32
	buf         []byte
	bytePerLine int
}

// KMSDRMSink shows frames on the first connected output of a DRM card,
// drawing into dumb buffers and flipping between two of them.
type KMSDRMSink struct {
	card    *os.File
	modeset mode.Modeset

	pixFormat gifplayer.PixelFormat
	pixSize   int

	framebuffers        []*framebuffer
	frontFrameBufferNum int
}

// NewKMSDRMSink opens /dev/dri/card<cardNum>. pixFormat is the scanout
// format, RGB32 or RGB16.
func NewKMSDRMSink(cardNum int, pixFormat gifplayer.PixelFormat) (*KMSDRMSink, error) {
	if pixFormat != gifplayer.RGB32 && pixFormat != gifplayer.RGB16 {
		return nil, fmt.Errorf("Unsupported scanout format %v", pixFormat)
	}

	card, err := drm.OpenCard(cardNum)
	if err != nil {
		return nil, err
	}

	if !drm.HasDumbBuffer(card) {
		card.Close()
		return nil, fmt.Errorf("drm device %v does not support dumb buffers", cardNum)
	}

	sink := &KMSDRMSink{
		card:      card,
		pixFormat: pixFormat,
		pixSize:   gifplayer.GetPixelSize(pixFormat),
	}

	simpleMSet, err := mode.NewSimpleModeset(card)
	if err != nil {
		card.Close()
		return nil, err
	}

	if len(simpleMSet.Modesets) == 0 {
		card.Close()
		return nil, errors.New("Modesets is empty")
	}

	sink.modeset = simpleMSet.Modesets[0]
	for i := 0; i < 2; i++ {
		framebuffer, err := sink.createFramebuffer()
		if err != nil {
			sink.Close()
			return nil, err
		}
		sink.framebuffers = append(sink.framebuffers, framebuffer)
	}

	return sink, nil
}

// Width returns the width of the output mode.
func (s *KMSDRMSink) Width() int {
	return int(s.modeset.Width)
}

// Height returns the height of the output mode.
func (s *KMSDRMSink) Height() int {
	return int(s.modeset.Height)
}

// Present converts frame into the back buffer, centered and clipped to
// the output, and scans it out.
func (s *KMSDRMSink) Present(frame *gifplayer.PublishedFrame) error {
	fb := s.framebuffers[s.frontFrameBufferNum]

	for i := range fb.buf {
		fb.buf[i] = 0
	}

	w, h, dstX, dstY, srcX, srcY := clip(frame.Width, frame.Height, s.Width(), s.Height())
	srcPixSize := gifplayer.GetPixelSize(frame.PixFormat)
	for row := 0; row < h; row++ {
		srcOffset := (srcY+row)*frame.Stride + srcX*srcPixSize
		dstOffset := (dstY+row)*fb.bytePerLine + dstX*s.pixSize
		err := gifplayer.ConvertRow(fb.buf[dstOffset:], s.pixFormat,
			frame.Buffer[srcOffset:], frame.PixFormat, w)
		if err != nil {
			return err
		}
	}

	err := mode.SetCrtc(s.card, s.modeset.Crtc, fb.id,
		0, 0, &s.modeset.Conn, 1, &s.modeset.Mode)

	s.frontFrameBufferNum = (s.frontFrameBufferNum + 1) % len(s.framebuffers)
	return err
}

// Close releases the framebuffers and the card.
func (s *KMSDRMSink) Close() error {
	for _, fb := range s.framebuffers {
		s.destroyFramebuffer(fb)
	}
	s.framebuffers = nil

	if s.card == nil {
		return nil
	}
	err := s.card.Close()
	s.card = nil
	return err
}

func (s *KMSDRMSink) createFramebuffer() (*framebuffer, error) {
	fb := &framebuffer{}
	var err error

	defer func() {
		if err != nil {
			s.destroyFramebuffer(fb)
		}
	}()

	width := s.modeset.Width
	height := s.modeset.Height
	bpp := s.pixSize * 8
	depth := gifplayer.GetPixelDepth(s.pixFormat)

	fbInfo, err := mode.CreateFB(s.card, uint16(width), uint16(height), uint32(bpp))
	if err != nil {
		return nil, err
	}

	fb.handle = fbInfo.Handle
	fb.bytePerLine = int(fbInfo.Pitch)
	fb.id, err = mode.AddFB(s.card, uint16(width), uint16(height),
		uint8(depth), uint8(bpp), fbInfo.Pitch, fb.handle)
	if err != nil {
		return nil, err
	}

	offset, err := mode.MapDumb(s.card, fb.handle)
	if err != nil {
		return nil, err
	}

	fb.buf, err = syscall.Mmap(int(s.card.Fd()), int64(offset), int(fbInfo.Size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return fb, nil
}

func (s *KMSDRMSink) destroyFramebuffer(fb *framebuffer) {
	if fb != nil && s.card != nil {
		if fb.id != 0 {
			mode.RmFB(s.card, fb.id)
			fb.id = 0
		}

		if fb.handle != 0 {
			mode.DestroyDumb(s.card, fb.handle)
			fb.handle = 0
		}

		if fb.buf != nil {
			syscall.Munmap(fb.buf)
			fb.buf = nil
		}
	}
}
