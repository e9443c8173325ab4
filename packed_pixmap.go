package gifplayer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// PackedPixmap is a run-length packed pixmap.
//
// Every row is a sequence of (count, pixel) runs terminated by a zero count.
type PackedPixmap struct {
	Data      []byte
	Width     int
	Height    int
	PixFormat PixelFormat
}

const maxPackedPixmapSide = 32000

var errInvalidPackedData = errors.New("Invalid data")

// Save saves PackedPixmap
func (packedPixmap *PackedPixmap) Save(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if _, err = packedPixmap.WriteTo(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}

	return file.Sync()
}

// WriteTo writes the header and packed data to w.
func (packedPixmap *PackedPixmap) WriteTo(w io.Writer) (int64, error) {
	header := []uint32{
		uint32(packedPixmap.PixFormat),
		uint32(packedPixmap.Width),
		uint32(packedPixmap.Height),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return 0, err
	}

	n, err := w.Write(packedPixmap.Data)
	return int64(len(header)*4 + n), err
}

// Unpack unpacks PackedPixmap
func (packedPixmap *PackedPixmap) Unpack() (*Pixmap, error) {
	pixSize := GetPixelSize(packedPixmap.PixFormat)

	unpackedDataSize := packedPixmap.Width * packedPixmap.Height * pixSize
	unpackedData := make([]byte, 0, unpackedDataSize)

	rowCount := 0
	rowSize := 0
	for pos := 0; pos < len(packedPixmap.Data); {
		pixCount := int(packedPixmap.Data[pos])
		pos++
		if pixCount == 0 {
			// New row
			if rowSize != packedPixmap.Width {
				return nil, errInvalidPackedData
			}

			rowCount++
			rowSize = 0
			continue
		}
		if pos+pixSize > len(packedPixmap.Data) {
			return nil, errInvalidPackedData
		}
		pix := packedPixmap.Data[pos : pos+pixSize]
		for i := 0; i < pixCount; i++ {
			unpackedData = append(unpackedData, pix...)
		}

		rowSize += pixCount
		pos += pixSize
	}

	if rowCount != packedPixmap.Height {
		return nil, errInvalidPackedData
	}

	pixmap := &Pixmap{
		Data:        unpackedData,
		Width:       packedPixmap.Width,
		Height:      packedPixmap.Height,
		PixFormat:   packedPixmap.PixFormat,
		BytePerLine: packedPixmap.Width * pixSize,
	}
	return pixmap, nil
}

func u32ToPixFormat(val uint32) (PixelFormat, error) {
	switch PixelFormat(val) {
	case PRGBA32, PBGRA32, RGB32, RGB16:
		return PixelFormat(val), nil
	default:
		return 0, errUnsupportedPixelFormat
	}
}

// LoadPackedPixmap loads a PackedPixmap saved by Save.
func LoadPackedPixmap(fileName string) (*PackedPixmap, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadPackedPixmap(bufio.NewReader(file))
}

// ReadPackedPixmap reads a PackedPixmap from r and validates its rows.
func ReadPackedPixmap(r io.Reader) (*PackedPixmap, error) {
	header := [3]uint32{}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	pixFormat, err := u32ToPixFormat(header[0])
	if err != nil {
		return nil, err
	}
	width := int(header[1])
	if width > maxPackedPixmapSide {
		return nil, errors.New("Invalid width")
	}
	height := int(header[2])
	if height > maxPackedPixmapSide {
		return nil, errors.New("Invalid height")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if width*height > 0 && len(data) == 0 {
		return nil, errInvalidPackedData
	}

	pixSize := GetPixelSize(pixFormat)
	rowCount := 0
	rowSize := 0
	for pos := 0; pos < len(data); {
		pixCount := data[pos]
		if pixCount == 0 {
			// New row
			if rowSize != width {
				return nil, errInvalidPackedData
			}

			rowCount++
			rowSize = 0

			pos++
			continue
		}

		rowSize += int(pixCount)
		pos += 1 + pixSize
	}

	if rowCount != height {
		return nil, errInvalidPackedData
	}
	packedPixmap := &PackedPixmap{
		Data:      data,
		Width:     width,
		Height:    height,
		PixFormat: pixFormat,
	}
	return packedPixmap, nil
}

// PackPixmap packs Pixmap
func PackPixmap(pixmap *Pixmap) (*PackedPixmap, error) {
	if err := pixmap.Validate(); err != nil {
		return nil, err
	}

	packedPixmap := &PackedPixmap{
		Width:     pixmap.Width,
		Height:    pixmap.Height,
		PixFormat: pixmap.PixFormat,
	}

	pixSize := GetPixelSize(pixmap.PixFormat)

	for y := 0; y < pixmap.Height; y++ {
		row := pixmap.Row(y)

		for pixOffset := 0; pixOffset <= len(row)-pixSize; {
			packedPixel := row[pixOffset : pixOffset+pixSize]

			var eqPixCount byte = 1
			pixOffset += pixSize
			for pixOffset <= len(row)-pixSize && eqPixCount < 0xFF {
				if !bytes.Equal(packedPixel, row[pixOffset:pixOffset+pixSize]) {
					break
				}

				eqPixCount++
				pixOffset += pixSize
			}

			packedPixmap.Data = append(packedPixmap.Data, eqPixCount)
			packedPixmap.Data = append(packedPixmap.Data, packedPixel...)
		}
		packedPixmap.Data = append(packedPixmap.Data, 0x00) // New row
	}

	return packedPixmap, nil
}
