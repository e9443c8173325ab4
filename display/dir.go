package display

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rmcsoft/gifplayer"
)

// DirSink packs every presented frame and saves it into a directory as
// frame-NNNNNN.ppixmap.
type DirSink struct {
	dir   string
	count int
}

// NewDirSink creates dir if needed and returns a DirSink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirSink{dir: dir}, nil
}

// Present saves frame.
func (s *DirSink) Present(frame *gifplayer.PublishedFrame) error {
	packed, err := gifplayer.PackPixmap(frame.Pixmap())
	if err != nil {
		return fmt.Errorf("packing frame %d: %w", s.count, err)
	}

	fileName := filepath.Join(s.dir, fmt.Sprintf("frame-%06d.ppixmap", s.count))
	if err = packed.Save(fileName); err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns the number of saved frames.
func (s *DirSink) Count() int {
	return s.count
}

// Close implements Sink.
func (s *DirSink) Close() error {
	return nil
}
