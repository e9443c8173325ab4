package gifplayer

import (
	"fmt"
	"image/color"
)

// GlobalMetadata describes the animation as a whole.
type GlobalMetadata struct {
	// Width and Height are the logical canvas size.
	Width  int
	Height int
	// RenderWidth and RenderHeight are the canvas size corrected by the
	// pixel aspect ratio. They never exceed Width and Height.
	RenderWidth  int
	RenderHeight int
	// BackgroundColor is fully transparent when the source has none.
	BackgroundColor color.NRGBA
	// TotalLoopCount is the declared loop count, 0 means forever.
	TotalLoopCount int
	// HasLoop is set when the source declares a non-zero loop count.
	HasLoop bool
}

// MetadataKey names a metadata field of a decoded source or frame.
type MetadataKey string

// Metadata fields read from a decode service.
const (
	KeyScreenWidth           MetadataKey = "screen/width"
	KeyScreenHeight          MetadataKey = "screen/height"
	KeyPixelAspectRatio      MetadataKey = "screen/aspect"
	KeyGlobalColorTableFlag  MetadataKey = "screen/globalcolortable"
	KeyBackgroundColorIndex  MetadataKey = "screen/bgindex"
	KeyApplicationIdentifier MetadataKey = "appext/application"
	KeyApplicationData       MetadataKey = "appext/data"

	KeyFrameLeft     MetadataKey = "image/left"
	KeyFrameTop      MetadataKey = "image/top"
	KeyFrameWidth    MetadataKey = "image/width"
	KeyFrameHeight   MetadataKey = "image/height"
	KeyFrameDelay    MetadataKey = "control/delay"
	KeyFrameDisposal MetadataKey = "control/disposal"
)

// ValueKind is the type of a metadata value.
type ValueKind int

// Kinds of metadata values.
const (
	KindUint8 ValueKind = iota + 1
	KindUint16
	KindBool
	KindBytes
)

func (k ValueKind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// MetadataValue is a typed metadata field value.
type MetadataValue struct {
	Kind  ValueKind
	Uint  uint16
	Bool  bool
	Bytes []byte
}

// Uint8Value returns a KindUint8 value.
func Uint8Value(v uint8) MetadataValue { return MetadataValue{Kind: KindUint8, Uint: uint16(v)} }

// Uint16Value returns a KindUint16 value.
func Uint16Value(v uint16) MetadataValue { return MetadataValue{Kind: KindUint16, Uint: v} }

// BoolValue returns a KindBool value.
func BoolValue(v bool) MetadataValue { return MetadataValue{Kind: KindBool, Bool: v} }

// BytesValue returns a KindBytes value.
func BytesValue(v []byte) MetadataValue { return MetadataValue{Kind: KindBytes, Bytes: v} }

func (v MetadataValue) expect(kind ValueKind) error {
	if v.Kind != kind {
		return fmt.Errorf("%w: got %v, want %v", ErrMetadataType, v.Kind, kind)
	}
	return nil
}

// MetadataReader looks up metadata fields. Lookup returns an error wrapping
// ErrMetadataNotFound for absent fields.
type MetadataReader interface {
	Lookup(key MetadataKey) (MetadataValue, error)
}

// MapMetadata is a MetadataReader backed by a map.
type MapMetadata map[MetadataKey]MetadataValue

// Lookup implements MetadataReader.
func (m MapMetadata) Lookup(key MetadataKey) (MetadataValue, error) {
	v, ok := m[key]
	if !ok {
		return MetadataValue{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, key)
	}
	return v, nil
}

func lookupUint16(r MetadataReader, key MetadataKey) (uint16, error) {
	v, err := r.Lookup(key)
	if err != nil {
		return 0, err
	}
	if err = v.expect(KindUint16); err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v.Uint, nil
}

func lookupUint8(r MetadataReader, key MetadataKey) (uint8, error) {
	v, err := r.Lookup(key)
	if err != nil {
		return 0, err
	}
	if err = v.expect(KindUint8); err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint8(v.Uint), nil
}

func lookupBool(r MetadataReader, key MetadataKey) (bool, error) {
	v, err := r.Lookup(key)
	if err != nil {
		return false, err
	}
	if err = v.expect(KindBool); err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v.Bool, nil
}

func lookupBytes(r MetadataReader, key MetadataKey) ([]byte, error) {
	v, err := r.Lookup(key)
	if err != nil {
		return nil, err
	}
	if err = v.expect(KindBytes); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return v.Bytes, nil
}
