package gifplayer

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/google/go-cmp/cmp"
)

var (
	red         = color.RGBA{R: 0xFF, A: 0xFF}
	green       = color.RGBA{G: 0xFF, A: 0xFF}
	blue        = color.RGBA{B: 0xFF, A: 0xFF}
	transparent = color.RGBA{}
)

type testFrame struct {
	meta   MapMetadata
	pixmap *Pixmap
}

// testDecoder is a DecodeService serving frames from memory.
type testDecoder struct {
	global  MapMetadata
	palette color.Palette
	frames  []testFrame

	// gate, when not nil, blocks Frame until it is closed.
	gate chan struct{}

	mu      sync.Mutex
	decodes int
	closed  bool
}

func newTestDecoder(width, height int) *testDecoder {
	return &testDecoder{
		global: MapMetadata{
			KeyScreenWidth:  Uint16Value(uint16(width)),
			KeyScreenHeight: Uint16Value(uint16(height)),
		},
	}
}

// addFrame appends a frame filling rect with c.
func (d *testDecoder) addFrame(rect image.Rectangle, c color.RGBA, delay uint16, disposal DisposalMethod) *testDecoder {
	d.frames = append(d.frames, testFrame{
		meta:   frameMetadata(rect, delay, disposal),
		pixmap: solidPixmap(rect.Dx(), rect.Dy(), c),
	})
	return d
}

func (d *testDecoder) setLoopCount(count uint16) *testDecoder {
	d.global[KeyApplicationIdentifier] = BytesValue([]byte("NETSCAPE2.0"))
	d.global[KeyApplicationData] = BytesValue([]byte{3, 1, byte(count), byte(count >> 8)})
	return d
}

func (d *testDecoder) FrameCount() int {
	return len(d.frames)
}

func (d *testDecoder) Metadata() MetadataReader {
	return d.global
}

func (d *testDecoder) Palette() (color.Palette, error) {
	if d.palette == nil {
		return nil, errors.New("no palette")
	}
	return d.palette, nil
}

func (d *testDecoder) Frame(index int) (*DecodedFrame, error) {
	if d.gate != nil {
		<-d.gate
	}
	d.mu.Lock()
	d.decodes++
	d.mu.Unlock()

	f := d.frames[index]
	return &DecodedFrame{Pixmap: f.pixmap, Metadata: f.meta}, nil
}

func (d *testDecoder) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *testDecoder) decodeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodes
}

func (d *testDecoder) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func frameMetadata(rect image.Rectangle, delay uint16, disposal DisposalMethod) MapMetadata {
	return MapMetadata{
		KeyFrameLeft:     Uint16Value(uint16(rect.Min.X)),
		KeyFrameTop:      Uint16Value(uint16(rect.Min.Y)),
		KeyFrameWidth:    Uint16Value(uint16(rect.Dx())),
		KeyFrameHeight:   Uint16Value(uint16(rect.Dy())),
		KeyFrameDelay:    Uint16Value(delay),
		KeyFrameDisposal: Uint8Value(uint8(disposal)),
	}
}

func solidPixmap(width, height int, c color.RGBA) *Pixmap {
	pixmap := NewPixmap(width, height, PRGBA32)
	for i := 0; i < len(pixmap.Data); i += 4 {
		pixmap.Data[i], pixmap.Data[i+1], pixmap.Data[i+2], pixmap.Data[i+3] = c.R, c.G, c.B, c.A
	}
	return pixmap
}

// pixels returns the content of a software surface row by row.
func pixels(surface DrawingSurface) [][]color.RGBA {
	s, err := asSoftwareSurface(surface)
	if err != nil {
		panic(err)
	}
	size := s.Size()
	rows := make([][]color.RGBA, size.Y)
	for y := range rows {
		rows[y] = make([]color.RGBA, size.X)
		for x := range rows[y] {
			rows[y][x] = s.img.RGBAAt(x, y)
		}
	}
	return rows
}

// fill returns a width x height grid of c.
func fill(width, height int, c color.RGBA) [][]color.RGBA {
	rows := make([][]color.RGBA, height)
	for y := range rows {
		rows[y] = make([]color.RGBA, width)
		for x := range rows[y] {
			rows[y][x] = c
		}
	}
	return rows
}

// paint sets rect of rows to c.
func paint(rows [][]color.RGBA, rect image.Rectangle, c color.RGBA) [][]color.RGBA {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			rows[y][x] = c
		}
	}
	return rows
}

// failingDevice wraps a SoftwareDevice and fails selected calls.
type failingDevice struct {
	*SoftwareDevice
	surfacesLeft int
	failStage    bool
}

var errInjected = errors.New("injected failure")

func (d *failingDevice) NewSurface(width int, height int) (DrawingSurface, error) {
	if d.surfacesLeft == 0 {
		return nil, errInjected
	}
	d.surfacesLeft--
	return d.SoftwareDevice.NewSurface(width, height)
}

func (d *failingDevice) Stage(src DrawingSurface, pixFormat PixelFormat) (*StagingBuffer, error) {
	if d.failStage {
		return nil, errInjected
	}
	return d.SoftwareDevice.Stage(src, pixFormat)
}

// approxColor compares colors allowing the rounding error of scaling.
var approxColor = cmp.Comparer(func(a, b color.RGBA) bool {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return -1 <= d && d <= 1
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
})
