package gifplayer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var convertRowTests = []struct {
	dstFormat PixelFormat
	srcFormat PixelFormat
	src       []byte
	want      []byte
}{
	{
		dstFormat: PRGBA32, srcFormat: PRGBA32,
		src:  []byte{0x10, 0x20, 0x30, 0x40},
		want: []byte{0x10, 0x20, 0x30, 0x40},
	},
	{
		dstFormat: PBGRA32, srcFormat: PRGBA32,
		src:  []byte{0x10, 0x20, 0x30, 0x40},
		want: []byte{0x30, 0x20, 0x10, 0x40},
	},
	{
		dstFormat: PRGBA32, srcFormat: PBGRA32,
		src:  []byte{0x30, 0x20, 0x10, 0x40},
		want: []byte{0x10, 0x20, 0x30, 0x40},
	},
	{
		dstFormat: RGB32, srcFormat: PRGBA32,
		src:  []byte{0x10, 0x20, 0x30, 0x40},
		want: []byte{0x30, 0x20, 0x10, 0xFF},
	},
	{
		dstFormat: RGB32, srcFormat: PBGRA32,
		src:  []byte{0x30, 0x20, 0x10, 0x40},
		want: []byte{0x30, 0x20, 0x10, 0xFF},
	},
	{
		// 0xF800 little endian
		dstFormat: RGB16, srcFormat: PRGBA32,
		src:  []byte{0xFF, 0x00, 0x00, 0xFF},
		want: []byte{0x00, 0xF8},
	},
	{
		// 0x07E0 little endian
		dstFormat: RGB16, srcFormat: PBGRA32,
		src:  []byte{0x00, 0xFF, 0x00, 0xFF},
		want: []byte{0xE0, 0x07},
	},
}

func TestConvertRow(t *testing.T) {
	for _, test := range convertRowTests {
		got := make([]byte, len(test.want))
		err := ConvertRow(got, test.dstFormat, test.src, test.srcFormat, 1)
		if err != nil {
			t.Errorf("unexpected error converting %v to %v: %v", test.srcFormat, test.dstFormat, err)
			continue
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected conversion %v to %v: got:%#v want:%#v", test.srcFormat, test.dstFormat, got, test.want)
		}
	}
}

func TestConvertRowErrors(t *testing.T) {
	dst := make([]byte, 8)
	if err := ConvertRow(dst, PRGBA32, make([]byte, 8), RGB16, 1); err == nil {
		t.Error("expected error converting from RGB16")
	}
	if err := ConvertRow(dst, PRGBA32, make([]byte, 4), PRGBA32, 2); err == nil {
		t.Error("expected error for short source row")
	}
	if err := ConvertRow(dst, PixelFormat(42), make([]byte, 4), PRGBA32, 1); err == nil {
		t.Error("expected error for unknown destination format")
	}
}

func TestPixelSize(t *testing.T) {
	got := map[PixelFormat][2]int{}
	for _, f := range []PixelFormat{PRGBA32, PBGRA32, RGB32, RGB16} {
		got[f] = [2]int{GetPixelSize(f), GetPixelDepth(f)}
	}
	want := map[PixelFormat][2]int{
		PRGBA32: {4, 32},
		PBGRA32: {4, 32},
		RGB32:   {4, 24},
		RGB16:   {2, 16},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected pixel sizes:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
}
