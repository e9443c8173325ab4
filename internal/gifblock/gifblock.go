// Package gifblock walks the block structure of a GIF stream and collects
// the descriptor and extension fields without decoding any image data.
package gifblock

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

// Extensions.
const (
	eGraphicControl = 0xF9
	eApplication    = 0xFF
)

// Masks
const (
	fColorTable         = 1 << 7
	fColorTableBitsMask = 7
	gcDisposalMethod    = 7 << 2
)

// Screen is the logical screen descriptor.
type Screen struct {
	Width               uint16
	Height              uint16
	Fields              byte
	BackgroundIndex     byte
	AspectRatio         byte
	HasGlobalColorTable bool
}

// Application is the first application extension of the stream.
type Application struct {
	// Identifier holds the identifier and authentication code as stored.
	Identifier []byte
	// Data is the first data sub-block including its leading size byte.
	Data []byte
}

// GraphicControl is a graphic control extension.
type GraphicControl struct {
	Fields           byte
	Delay            uint16
	TransparentIndex byte
}

// DisposalMethod returns the disposal method field.
func (gc *GraphicControl) DisposalMethod() byte {
	return (gc.Fields & gcDisposalMethod) >> 2
}

// Image is an image descriptor and the graphic control extension that
// preceded it, if any.
type Image struct {
	Left    uint16
	Top     uint16
	Width   uint16
	Height  uint16
	Fields  byte
	Control *GraphicControl
}

// File is the block structure of a GIF stream.
type File struct {
	Screen      Screen
	Application *Application
	Images      []Image
}

type scanner struct {
	r       *bufio.Reader
	file    *File
	control *GraphicControl
	tmp     [256]byte
}

// Scan reads a GIF stream up to its trailer.
func Scan(r io.Reader) (*File, error) {
	s := scanner{r: bufio.NewReader(r), file: &File{}}

	if err := s.readHeaderAndScreenDescriptor(); err != nil {
		return nil, err
	}

	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("gifblock: reading blocks: %w", unexpected(err))
		}
		switch c {
		case sExtension:
			if err = s.readExtension(); err != nil {
				return nil, err
			}
		case sImageDescriptor:
			if err = s.readImageDescriptor(); err != nil {
				return nil, err
			}
		case sTrailer:
			if len(s.file.Images) == 0 {
				return nil, errors.New("gifblock: missing image data")
			}
			return s.file, nil
		default:
			return nil, fmt.Errorf("gifblock: unknown block type: 0x%.2x", c)
		}
	}
}

func (s *scanner) readHeaderAndScreenDescriptor() error {
	if _, err := io.ReadFull(s.r, s.tmp[:13]); err != nil {
		return fmt.Errorf("gifblock: reading header: %w", unexpected(err))
	}
	version := string(s.tmp[:6])
	if version != "GIF87a" && version != "GIF89a" {
		return fmt.Errorf("gifblock: can't recognize format %q", version)
	}

	screen := &s.file.Screen
	screen.Width = binary.LittleEndian.Uint16(s.tmp[6:8])
	screen.Height = binary.LittleEndian.Uint16(s.tmp[8:10])
	screen.Fields = s.tmp[10]
	screen.BackgroundIndex = s.tmp[11]
	screen.AspectRatio = s.tmp[12]
	screen.HasGlobalColorTable = screen.Fields&fColorTable != 0
	if screen.HasGlobalColorTable {
		return s.skipColorTable(screen.Fields)
	}
	return nil
}

func (s *scanner) skipColorTable(fields byte) error {
	n := 3 * (1 << (1 + uint(fields&fColorTableBitsMask)))
	if _, err := io.ReadFull(s.r, s.tmp[:n]); err != nil {
		return fmt.Errorf("gifblock: reading color table: %w", unexpected(err))
	}
	return nil
}

func (s *scanner) readExtension() error {
	extension, err := s.r.ReadByte()
	if err != nil {
		return fmt.Errorf("gifblock: reading extension: %w", unexpected(err))
	}

	switch extension {
	case eGraphicControl:
		err = s.readGraphicControl()
	case eApplication:
		err = s.readApplication()
	}
	if err != nil {
		return err
	}
	return s.skipBlocks()
}

func (s *scanner) readGraphicControl() error {
	n, err := s.readBlock()
	if err != nil {
		return fmt.Errorf("gifblock: can't read graphic control: %w", err)
	}
	if n != 4 {
		return errors.New("gifblock: invalid graphic control with a non-4 size")
	}
	s.control = &GraphicControl{
		Fields:           s.tmp[0],
		Delay:            binary.LittleEndian.Uint16(s.tmp[1:3]),
		TransparentIndex: s.tmp[3],
	}
	return nil
}

func (s *scanner) readApplication() error {
	n, err := s.readBlock()
	if err != nil {
		return fmt.Errorf("gifblock: reading application extension: %w", err)
	}
	if n == 0 {
		// The extension is already terminated.
		return s.r.UnreadByte()
	}
	identifier := append([]byte(nil), s.tmp[:n]...)

	n, err = s.readBlock()
	if err != nil {
		return fmt.Errorf("gifblock: reading application extension: %w", err)
	}
	data := make([]byte, 0, n+1)
	data = append(data, byte(n))
	data = append(data, s.tmp[:n]...)

	if s.file.Application == nil {
		s.file.Application = &Application{Identifier: identifier, Data: data}
	}
	if n == 0 {
		return s.r.UnreadByte()
	}
	return nil
}

func (s *scanner) readImageDescriptor() error {
	if _, err := io.ReadFull(s.r, s.tmp[:9]); err != nil {
		return fmt.Errorf("gifblock: can't read image descriptor: %w", unexpected(err))
	}
	img := Image{
		Left:    binary.LittleEndian.Uint16(s.tmp[0:2]),
		Top:     binary.LittleEndian.Uint16(s.tmp[2:4]),
		Width:   binary.LittleEndian.Uint16(s.tmp[4:6]),
		Height:  binary.LittleEndian.Uint16(s.tmp[6:8]),
		Fields:  s.tmp[8],
		Control: s.control,
	}
	s.control = nil

	if img.Fields&fColorTable != 0 {
		if err := s.skipColorTable(img.Fields); err != nil {
			return err
		}
	}

	// LZW minimum code size.
	if _, err := s.r.ReadByte(); err != nil {
		return fmt.Errorf("gifblock: reading image data: %w", unexpected(err))
	}
	if err := s.skipBlocks(); err != nil {
		return err
	}

	s.file.Images = append(s.file.Images, img)
	return nil
}

// readBlock reads one data sub-block into tmp and returns its size.
func (s *scanner) readBlock() (int, error) {
	n, err := s.r.ReadByte()
	if n == 0 || err != nil {
		return 0, unexpected(err)
	}
	if _, err := io.ReadFull(s.r, s.tmp[:n]); err != nil {
		return 0, unexpected(err)
	}
	return int(n), nil
}

func (s *scanner) skipBlocks() error {
	for {
		n, err := s.readBlock()
		if err != nil {
			return fmt.Errorf("gifblock: reading sub-blocks: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
