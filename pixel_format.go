package gifplayer

import "errors"

// PixelFormat is an enumeration of pixel formats
type PixelFormat int

const (
	// PRGBA32 is 32-bit RGBA with premultiplied alpha, bytes in R, G, B, A order
	PRGBA32 PixelFormat = iota
	// PBGRA32 is 32-bit BGRA with premultiplied alpha, bytes in B, G, R, A order
	PBGRA32
	// RGB32 is 32-bit RGB format (0xffRRGGBB)
	RGB32
	// RGB16 is 16-bit RGB format (5-6-5)
	RGB16
)

var errUnsupportedPixelFormat = errors.New("Unsupported pixel format")

// String returns the name of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case PRGBA32:
		return "PRGBA32"
	case PBGRA32:
		return "PBGRA32"
	case RGB32:
		return "RGB32"
	case RGB16:
		return "RGB16"
	default:
		return "unknown"
	}
}

// GetPixelSize returns the number of bytes per pixel.
func GetPixelSize(pixFormat PixelFormat) int {
	if pixFormat == RGB16 {
		return 2
	}
	return 4
}

// GetPixelDepth returns the number of significant color bits per pixel.
func GetPixelDepth(pixFormat PixelFormat) int {
	switch pixFormat {
	case RGB16:
		return 16
	case RGB32:
		return 24
	default:
		return 32
	}
}

// ConvertRow converts width pixels of a 32-bit premultiplied row src into dst.
func ConvertRow(dst []byte, dstFormat PixelFormat, src []byte, srcFormat PixelFormat, width int) error {
	if srcFormat != PRGBA32 && srcFormat != PBGRA32 {
		return errUnsupportedPixelFormat
	}
	if len(src) < width*4 || len(dst) < width*GetPixelSize(dstFormat) {
		return errors.New("Row is too short")
	}

	ri, bi := 0, 2
	if srcFormat == PBGRA32 {
		ri, bi = 2, 0
	}

	switch dstFormat {
	case srcFormat:
		copy(dst[:width*4], src[:width*4])
	case PRGBA32, PBGRA32:
		for x := 0; x < width; x++ {
			s := src[x*4 : x*4+4]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
	case RGB32:
		for x := 0; x < width; x++ {
			s := src[x*4 : x*4+4]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[bi], s[1], s[ri], 0xFF
		}
	case RGB16:
		for x := 0; x < width; x++ {
			s := src[x*4 : x*4+4]
			pix := uint16(s[ri]>>3)<<11 | uint16(s[1]>>2)<<5 | uint16(s[bi]>>3)
			dst[x*2] = byte(pix)
			dst[x*2+1] = byte(pix >> 8)
		}
	default:
		return errUnsupportedPixelFormat
	}
	return nil
}
