package gifplayer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Delays below minFrameDelay are replaced by normalizedFrameDelay. This
	// matches the playback speed of most browsers and makes zero delay
	// intermediate frames visible.
	minFrameDelay        = 20 * time.Millisecond
	normalizedFrameDelay = 90 * time.Millisecond

	delayUnit = 10 * time.Millisecond
)

var loopExtensionIdentifiers = [][]byte{
	[]byte("NETSCAPE2.0"),
	[]byte("ANIMEXTS1.0"),
}

// ExtractGlobalMetadata reads the global metadata of decoder. Missing canvas
// size is an error; background color and loop information fall back to
// transparent and loop forever.
func ExtractGlobalMetadata(decoder DecodeService, logger logrus.FieldLogger) (GlobalMetadata, error) {
	var meta GlobalMetadata
	reader := decoder.Metadata()

	width, err := lookupUint16(reader, KeyScreenWidth)
	if err != nil {
		return meta, fmt.Errorf("canvas width: %w", err)
	}
	height, err := lookupUint16(reader, KeyScreenHeight)
	if err != nil {
		return meta, fmt.Errorf("canvas height: %w", err)
	}
	meta.Width = int(width)
	meta.Height = int(height)

	aspect, err := lookupUint8(reader, KeyPixelAspectRatio)
	switch {
	case errors.Is(err, ErrMetadataNotFound):
		logger.Debug("No pixel aspect ratio, using 1:1")
		aspect = 0
	case err != nil:
		return meta, fmt.Errorf("pixel aspect ratio: %w", err)
	}
	meta.RenderWidth, meta.RenderHeight = renderSize(meta.Width, meta.Height, aspect)

	meta.BackgroundColor, err = backgroundColor(decoder)
	if err != nil {
		logger.WithError(err).Debug("No background color, using transparent")
		meta.BackgroundColor = color.NRGBA{}
	}

	meta.TotalLoopCount, meta.HasLoop = loopCount(reader, logger)
	return meta, nil
}

// renderSize corrects the canvas size by the pixel aspect ratio byte. The
// ratio ranges from 4:1 to 1:4 in steps of 1/64, and only ever shrinks one
// side.
func renderSize(width, height int, aspect uint8) (int, int) {
	if aspect == 0 {
		return width, height
	}

	ratio := (float64(aspect) + 15) / 64
	if ratio > 1 {
		return width, int(float64(height) / ratio)
	}
	return int(float64(width) * ratio), height
}

func backgroundColor(decoder DecodeService) (color.NRGBA, error) {
	reader := decoder.Metadata()

	hasTable, err := lookupBool(reader, KeyGlobalColorTableFlag)
	if err != nil {
		return color.NRGBA{}, err
	}
	if !hasTable {
		return color.NRGBA{}, errors.New("No global color table")
	}

	index, err := lookupUint8(reader, KeyBackgroundColorIndex)
	if err != nil {
		return color.NRGBA{}, err
	}

	palette, err := decoder.Palette()
	if err != nil {
		return color.NRGBA{}, err
	}
	if int(index) >= len(palette) {
		return color.NRGBA{}, fmt.Errorf("Background index %d is outside of a %d color palette", index, len(palette))
	}

	return color.NRGBAModel.Convert(palette[index]).(color.NRGBA), nil
}

// loopCount reads the application extension. Anything but a well formed
// loop extension means loop forever.
func loopCount(reader MetadataReader, logger logrus.FieldLogger) (int, bool) {
	id, err := lookupBytes(reader, KeyApplicationIdentifier)
	if err != nil {
		logger.WithError(err).Debug("No application extension, looping forever")
		return 0, false
	}
	if !isLoopExtension(id) {
		logger.WithField("application", string(id)).Debug("Unknown application extension, looping forever")
		return 0, false
	}

	// byte 0: sub-block size, must be > 0
	// byte 1: sub-block id, 1 is the loop sub-block
	// byte 2, 3: little endian loop count
	data, err := lookupBytes(reader, KeyApplicationData)
	if err != nil || len(data) < 4 || data[0] == 0 || data[1] != 1 {
		logger.Debug("Malformed loop extension, looping forever")
		return 0, false
	}

	count := int(data[2]) | int(data[3])<<8
	return count, count != 0
}

func isLoopExtension(id []byte) bool {
	if len(id) != 11 {
		return false
	}
	for _, known := range loopExtensionIdentifiers {
		if bytes.Equal(id, known) {
			return true
		}
	}
	return false
}

// ExtractFrameMetadata reads the metadata of the frame at index. The frame
// rectangle is mandatory; delay and disposal default to 0 and Undefined.
// Unless normalizeDelay is false, delays below 20ms are raised to 90ms.
func ExtractFrameMetadata(reader MetadataReader, index int, normalizeDelay bool) (FrameMetadata, error) {
	meta := FrameMetadata{Index: index}

	var geometry [4]int
	for i, key := range []MetadataKey{KeyFrameLeft, KeyFrameTop, KeyFrameWidth, KeyFrameHeight} {
		v, err := lookupUint16(reader, key)
		if err != nil {
			return meta, fmt.Errorf("frame %d: %w", index, err)
		}
		geometry[i] = int(v)
	}
	left, top := geometry[0], geometry[1]
	meta.Rect = image.Rect(left, top, left+geometry[2], top+geometry[3])

	delay, err := lookupUint16(reader, KeyFrameDelay)
	switch {
	case errors.Is(err, ErrMetadataNotFound):
		// Possibly a single frame image.
		meta.Delay = 0
	case err != nil:
		return meta, fmt.Errorf("frame %d: %w", index, err)
	default:
		meta.Delay = time.Duration(delay) * delayUnit
	}
	if normalizeDelay && meta.Delay < minFrameDelay {
		meta.Delay = normalizedFrameDelay
	}

	disposal, err := lookupUint8(reader, KeyFrameDisposal)
	switch {
	case errors.Is(err, ErrMetadataNotFound):
		meta.Disposal = DisposalUndefined
	case err != nil:
		return meta, fmt.Errorf("frame %d: %w", index, err)
	default:
		meta.Disposal = DisposalMethod(disposal)
	}

	return meta, nil
}
