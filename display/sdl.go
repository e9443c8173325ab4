package display

import (
	"errors"
	"sync"

	"github.com/rmcsoft/gifplayer"
	"github.com/veandco/go-sdl2/sdl"
)

var mutexSdlInit = sync.Mutex{}
var sdlInited = false

func initSdl() error {
	mutexSdlInit.Lock()
	defer mutexSdlInit.Unlock()

	if !sdlInited {
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			return err
		}
		sdlInited = true
	}
	return nil
}

func pixelFormatToSDL(pixelFormat gifplayer.PixelFormat) (uint32, error) {
	switch pixelFormat {
	case gifplayer.PRGBA32:
		return sdl.PIXELFORMAT_ABGR8888, nil
	case gifplayer.PBGRA32:
		return sdl.PIXELFORMAT_ARGB8888, nil
	case gifplayer.RGB32:
		return sdl.PIXELFORMAT_ARGB8888, nil
	case gifplayer.RGB16:
		return sdl.PIXELFORMAT_RGB565, nil
	default:
		return 0, errors.New("Unsupported pixel format")
	}
}

// SDLSink shows frames in a window. It must be used from the goroutine
// that created it.
type SDLSink struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	texture       *sdl.Texture
	textureWidth  int
	textureHeight int
	textureFormat gifplayer.PixelFormat
}

// NewSDLSink opens a width x height window. Frames are scaled to the window.
func NewSDLSink(width int, height int) (*SDLSink, error) {
	if err := initSdl(); err != nil {
		return nil, err
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(int32(width), int32(height), 0)
	if err != nil {
		return nil, err
	}
	window.SetTitle("gifplay")

	return &SDLSink{window: window, renderer: renderer}, nil
}

// Present uploads frame into a streaming texture and shows it. It returns
// ErrQuit once the window has been closed.
func (s *SDLSink) Present(frame *gifplayer.PublishedFrame) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			return ErrQuit
		}
	}

	if err := s.ensureTexture(frame); err != nil {
		return err
	}

	texturePixels, textureBytePerLine, err := s.texture.Lock(nil)
	if err != nil {
		return err
	}

	rowSize := frame.Width * gifplayer.GetPixelSize(frame.PixFormat)
	for rowNum := 0; rowNum < frame.Height; rowNum++ {
		frameOffset := rowNum * frame.Stride
		frameRow := frame.Buffer[frameOffset : frameOffset+rowSize]
		textureOffset := rowNum * textureBytePerLine
		textureRow := texturePixels[textureOffset : textureOffset+rowSize]
		copy(textureRow, frameRow)
	}
	s.texture.Unlock()

	if err = s.renderer.Clear(); err != nil {
		return err
	}
	if err = s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *SDLSink) ensureTexture(frame *gifplayer.PublishedFrame) error {
	if s.texture != nil &&
		s.textureWidth == frame.Width &&
		s.textureHeight == frame.Height &&
		s.textureFormat == frame.PixFormat {
		return nil
	}

	sdlPixFormat, err := pixelFormatToSDL(frame.PixFormat)
	if err != nil {
		return err
	}

	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}

	texture, err := s.renderer.CreateTexture(sdlPixFormat, sdl.TEXTUREACCESS_STREAMING,
		int32(frame.Width), int32(frame.Height))
	if err != nil {
		return err
	}
	// Frames are premultiplied, over black they are shown as is.
	if err = texture.SetBlendMode(sdl.BLENDMODE_NONE); err != nil {
		texture.Destroy()
		return err
	}

	s.texture = texture
	s.textureWidth = frame.Width
	s.textureHeight = frame.Height
	s.textureFormat = frame.PixFormat
	return nil
}

// Close destroys the window.
func (s *SDLSink) Close() error {
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		err := s.window.Destroy()
		s.window = nil
		return err
	}
	return nil
}
