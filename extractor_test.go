package gifplayer

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var renderSizeTests = []struct {
	aspect     uint8
	wantWidth  int
	wantHeight int
}{
	{aspect: 0, wantWidth: 100, wantHeight: 80},
	// (49+15)/64 == 1
	{aspect: 49, wantWidth: 100, wantHeight: 80},
	// 2:1, pixels are wide, the height shrinks.
	{aspect: 113, wantWidth: 100, wantHeight: 40},
	// 1:2, pixels are tall, the width shrinks.
	{aspect: 17, wantWidth: 50, wantHeight: 80},
	// 4:1 is the widest ratio.
	{aspect: 241, wantWidth: 100, wantHeight: 20},
	// 1:4 is the tallest ratio.
	{aspect: 1, wantWidth: 25, wantHeight: 80},
}

func TestRenderSize(t *testing.T) {
	for _, test := range renderSizeTests {
		w, h := renderSize(100, 80, test.aspect)
		if w != test.wantWidth || h != test.wantHeight {
			t.Errorf("unexpected render size for aspect %d: got:%dx%d want:%dx%d",
				test.aspect, w, h, test.wantWidth, test.wantHeight)
		}
	}
}

var globalMetadataTests = []struct {
	name    string
	global  MapMetadata
	palette color.Palette
	want    GlobalMetadata
	wantErr error
}{
	{
		name: "minimal",
		global: MapMetadata{
			KeyScreenWidth:  Uint16Value(10),
			KeyScreenHeight: Uint16Value(20),
		},
		want: GlobalMetadata{Width: 10, Height: 20, RenderWidth: 10, RenderHeight: 20},
	},
	{
		name: "missing_width",
		global: MapMetadata{
			KeyScreenHeight: Uint16Value(20),
		},
		wantErr: ErrMetadataNotFound,
	},
	{
		name: "wrong_height_type",
		global: MapMetadata{
			KeyScreenWidth:  Uint16Value(10),
			KeyScreenHeight: Uint8Value(20),
		},
		wantErr: ErrMetadataType,
	},
	{
		name: "wrong_aspect_type",
		global: MapMetadata{
			KeyScreenWidth:      Uint16Value(10),
			KeyScreenHeight:     Uint16Value(20),
			KeyPixelAspectRatio: Uint16Value(113),
		},
		wantErr: ErrMetadataType,
	},
	{
		name: "aspect_corrected",
		global: MapMetadata{
			KeyScreenWidth:      Uint16Value(10),
			KeyScreenHeight:     Uint16Value(20),
			KeyPixelAspectRatio: Uint8Value(113),
		},
		want: GlobalMetadata{Width: 10, Height: 20, RenderWidth: 10, RenderHeight: 10},
	},
	{
		name: "background_color",
		global: MapMetadata{
			KeyScreenWidth:          Uint16Value(1),
			KeyScreenHeight:         Uint16Value(1),
			KeyGlobalColorTableFlag: BoolValue(true),
			KeyBackgroundColorIndex: Uint8Value(1),
		},
		palette: color.Palette{color.Black, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}},
		want: GlobalMetadata{
			Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1,
			BackgroundColor: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF},
		},
	},
	{
		name: "background_index_out_of_palette",
		global: MapMetadata{
			KeyScreenWidth:          Uint16Value(1),
			KeyScreenHeight:         Uint16Value(1),
			KeyGlobalColorTableFlag: BoolValue(true),
			KeyBackgroundColorIndex: Uint8Value(2),
		},
		palette: color.Palette{color.Black, color.White},
		want:    GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
	{
		name: "background_without_color_table",
		global: MapMetadata{
			KeyScreenWidth:          Uint16Value(1),
			KeyScreenHeight:         Uint16Value(1),
			KeyGlobalColorTableFlag: BoolValue(false),
			KeyBackgroundColorIndex: Uint8Value(1),
		},
		palette: color.Palette{color.Black, color.White},
		want:    GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
	{
		name: "netscape_loop",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("NETSCAPE2.0")),
			KeyApplicationData:       BytesValue([]byte{3, 1, 0x05, 0x01}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1, TotalLoopCount: 261, HasLoop: true},
	},
	{
		name: "animexts_loop",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("ANIMEXTS1.0")),
			KeyApplicationData:       BytesValue([]byte{3, 1, 2, 0}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1, TotalLoopCount: 2, HasLoop: true},
	},
	{
		name: "zero_loop_count",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("NETSCAPE2.0")),
			KeyApplicationData:       BytesValue([]byte{3, 1, 0, 0}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
	{
		name: "unknown_application",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("XMP DataXMP")),
			KeyApplicationData:       BytesValue([]byte{3, 1, 2, 0}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
	{
		name: "not_a_loop_sub_block",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("NETSCAPE2.0")),
			KeyApplicationData:       BytesValue([]byte{5, 2, 0, 0, 1, 0}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
	{
		name: "short_loop_data",
		global: MapMetadata{
			KeyScreenWidth:           Uint16Value(1),
			KeyScreenHeight:          Uint16Value(1),
			KeyApplicationIdentifier: BytesValue([]byte("NETSCAPE2.0")),
			KeyApplicationData:       BytesValue([]byte{3, 1}),
		},
		want: GlobalMetadata{Width: 1, Height: 1, RenderWidth: 1, RenderHeight: 1},
	},
}

func TestExtractGlobalMetadata(t *testing.T) {
	for _, test := range globalMetadataTests {
		t.Run(test.name, func(t *testing.T) {
			decoder := &testDecoder{global: test.global, palette: test.palette}
			got, err := ExtractGlobalMetadata(decoder, Options{}.logger())
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("unexpected error: got:%v want:%v", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if !cmp.Equal(got, test.want) {
				t.Errorf("unexpected metadata:\n--- want:\n+++ got:\n%s", cmp.Diff(test.want, got))
			}
		})
	}
}

var frameMetadataTests = []struct {
	name      string
	meta      MapMetadata
	normalize bool
	want      FrameMetadata
	wantErr   error
}{
	{
		name:      "delay",
		meta:      frameMetadata(image.Rect(1, 2, 4, 6), 3, DisposalBackground),
		normalize: true,
		want:      FrameMetadata{Index: 7, Rect: image.Rect(1, 2, 4, 6), Delay: 30 * time.Millisecond, Disposal: DisposalBackground},
	},
	{
		name:      "short_delay_normalized",
		meta:      frameMetadata(image.Rect(0, 0, 1, 1), 1, DisposalNone),
		normalize: true,
		want:      FrameMetadata{Index: 7, Rect: image.Rect(0, 0, 1, 1), Delay: 90 * time.Millisecond, Disposal: DisposalNone},
	},
	{
		name:      "minimal_delay_kept",
		meta:      frameMetadata(image.Rect(0, 0, 1, 1), 2, DisposalNone),
		normalize: true,
		want:      FrameMetadata{Index: 7, Rect: image.Rect(0, 0, 1, 1), Delay: 20 * time.Millisecond, Disposal: DisposalNone},
	},
	{
		name: "zero_delay_not_normalized",
		meta: frameMetadata(image.Rect(0, 0, 1, 1), 0, DisposalPrevious),
		want: FrameMetadata{Index: 7, Rect: image.Rect(0, 0, 1, 1), Delay: 0, Disposal: DisposalPrevious},
	},
	{
		name: "no_control",
		meta: MapMetadata{
			KeyFrameLeft:   Uint16Value(0),
			KeyFrameTop:    Uint16Value(0),
			KeyFrameWidth:  Uint16Value(2),
			KeyFrameHeight: Uint16Value(2),
		},
		normalize: true,
		want:      FrameMetadata{Index: 7, Rect: image.Rect(0, 0, 2, 2), Delay: 90 * time.Millisecond, Disposal: DisposalUndefined},
	},
	{
		name: "missing_geometry",
		meta: MapMetadata{
			KeyFrameLeft:  Uint16Value(0),
			KeyFrameTop:   Uint16Value(0),
			KeyFrameWidth: Uint16Value(2),
		},
		wantErr: ErrMetadataNotFound,
	},
	{
		name: "wrong_delay_type",
		meta: MapMetadata{
			KeyFrameLeft:   Uint16Value(0),
			KeyFrameTop:    Uint16Value(0),
			KeyFrameWidth:  Uint16Value(2),
			KeyFrameHeight: Uint16Value(2),
			KeyFrameDelay:  BoolValue(true),
		},
		wantErr: ErrMetadataType,
	},
}

func TestExtractFrameMetadata(t *testing.T) {
	for _, test := range frameMetadataTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExtractFrameMetadata(test.meta, 7, test.normalize)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("unexpected error: got:%v want:%v", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if !cmp.Equal(got, test.want) {
				t.Errorf("unexpected metadata:\n--- want:\n+++ got:\n%s", cmp.Diff(test.want, got))
			}
		})
	}
}
