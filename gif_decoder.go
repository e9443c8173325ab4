package gifplayer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/rmcsoft/gifplayer/internal/gifblock"
)

// GIFDecoder opens GIF files. It implements DecoderOpener.
type GIFDecoder struct{}

// Open reads and decodes the GIF file at path.
func (GIFDecoder) Open(path string) (DecodeService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeGIF(data)
}

// OpenReader reads and decodes a GIF stream.
func OpenReader(r io.Reader) (*GIFSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeGIF(data)
}

// GIFSource is a fully decoded GIF stream.
type GIFSource struct {
	file     *gifblock.File
	gif      *gif.GIF
	metadata MapMetadata
}

// DecodeGIF decodes a GIF stream held in memory.
func DecodeGIF(data []byte) (*GIFSource, error) {
	file, err := gifblock.Scan(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding gif: %w", err)
	}
	if len(g.Image) != len(file.Images) {
		return nil, fmt.Errorf("decoded %d images, found %d descriptors", len(g.Image), len(file.Images))
	}

	source := &GIFSource{
		file: file,
		gif:  g,
		metadata: MapMetadata{
			KeyScreenWidth:          Uint16Value(file.Screen.Width),
			KeyScreenHeight:         Uint16Value(file.Screen.Height),
			KeyPixelAspectRatio:     Uint8Value(file.Screen.AspectRatio),
			KeyGlobalColorTableFlag: BoolValue(file.Screen.HasGlobalColorTable),
			KeyBackgroundColorIndex: Uint8Value(file.Screen.BackgroundIndex),
		},
	}
	if app := file.Application; app != nil {
		source.metadata[KeyApplicationIdentifier] = BytesValue(app.Identifier)
		source.metadata[KeyApplicationData] = BytesValue(app.Data)
	}
	return source, nil
}

// FrameCount implements DecodeService.
func (source *GIFSource) FrameCount() int {
	return len(source.gif.Image)
}

// Metadata implements DecodeService.
func (source *GIFSource) Metadata() MetadataReader {
	return source.metadata
}

// Palette implements DecodeService.
func (source *GIFSource) Palette() (color.Palette, error) {
	if !source.file.Screen.HasGlobalColorTable {
		return nil, errors.New("No global color table")
	}
	palette, ok := source.gif.Config.ColorModel.(color.Palette)
	if !ok {
		return nil, errors.New("Global color table is not a palette")
	}
	return palette, nil
}

// Frame implements DecodeService.
func (source *GIFSource) Frame(index int) (*DecodedFrame, error) {
	if index < 0 || index >= len(source.gif.Image) {
		return nil, fmt.Errorf("frame index %d out of range [0, %d)", index, len(source.gif.Image))
	}

	desc := source.file.Images[index]
	metadata := MapMetadata{
		KeyFrameLeft:   Uint16Value(desc.Left),
		KeyFrameTop:    Uint16Value(desc.Top),
		KeyFrameWidth:  Uint16Value(desc.Width),
		KeyFrameHeight: Uint16Value(desc.Height),
	}
	if gc := desc.Control; gc != nil {
		metadata[KeyFrameDelay] = Uint16Value(gc.Delay)
		metadata[KeyFrameDisposal] = Uint8Value(gc.DisposalMethod())
	}

	return &DecodedFrame{
		Pixmap:   PixmapFromImage(source.gif.Image[index]),
		Metadata: metadata,
	}, nil
}

// Close implements DecodeService.
func (source *GIFSource) Close() error {
	source.gif = &gif.GIF{}
	return nil
}
