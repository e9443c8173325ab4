package gifplayer

import (
	"errors"
	"time"
)

// maxFrameBufferSize bounds the buffer WaitAndFetch allocates.
const maxFrameBufferSize = 1 << 30

// PublishedFrame is a copy of the composed frame owned by the consumer.
//
// Buffer only ever grows: it is reallocated when a frame does not fit and
// kept otherwise, so len(Buffer) may be larger than the frame.
type PublishedFrame struct {
	Buffer []byte
	Width  int
	Height int
	// Stride is the byte distance between rows; rows are top-down.
	Stride    int
	PixFormat PixelFormat
	// Timestamp is the monotonic time of the copy.
	Timestamp time.Time
}

// Pixels returns the part of Buffer holding the frame.
func (f *PublishedFrame) Pixels() []byte {
	return f.Buffer[:f.Stride*f.Height]
}

// Pixmap returns a Pixmap sharing the frame pixels.
func (f *PublishedFrame) Pixmap() *Pixmap {
	return &Pixmap{
		Data:        f.Pixels(),
		Width:       f.Width,
		Height:      f.Height,
		BytePerLine: f.Stride,
		PixFormat:   f.PixFormat,
	}
}

func (f *PublishedFrame) resize(size int) error {
	if size > maxFrameBufferSize {
		return ErrFrameBufferTooLarge
	}
	if size > len(f.Buffer) {
		f.Buffer = make([]byte, size)
	}
	return nil
}

func (f *PublishedFrame) reset() {
	*f = PublishedFrame{}
}

// copyFrom copies staging into the frame top-down.
func (f *PublishedFrame) copyFrom(staging *StagingBuffer) error {
	stride := staging.Stride
	if stride < 0 {
		stride = -stride
	}
	rowSize := staging.Width * GetPixelSize(staging.PixFormat)
	if rowSize > stride || len(staging.Pix) < stride*staging.Height {
		return errors.New("Staging buffer is smaller than its geometry")
	}

	if err := f.resize(stride * staging.Height); err != nil {
		return err
	}
	for y := 0; y < staging.Height; y++ {
		src := staging.RowOffset(y)
		copy(f.Buffer[y*stride:y*stride+rowSize], staging.Pix[src:src+rowSize])
	}

	f.Width = staging.Width
	f.Height = staging.Height
	f.Stride = stride
	f.PixFormat = staging.PixFormat
	f.Timestamp = time.Now()
	return nil
}
