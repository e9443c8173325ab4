// Package display presents frames published by a gifplayer.Animator.
package display

import (
	"errors"

	"github.com/rmcsoft/gifplayer"
)

// ErrQuit is returned by Present when the user closed the output.
var ErrQuit = errors.New("Display closed by user")

// Sink shows published frames.
//
// Present is called from a single goroutine; it must not retain frame
// after returning.
type Sink interface {
	Present(frame *gifplayer.PublishedFrame) error
	Close() error
}

// clip returns the part of a width x height frame that fits into a
// screenWidth x screenHeight output, and the top left corner where it is
// shown so that the frame is centered.
func clip(width, height, screenWidth, screenHeight int) (w, h, dstX, dstY, srcX, srcY int) {
	w, dstX, srcX = clipAxis(width, screenWidth)
	h, dstY, srcY = clipAxis(height, screenHeight)
	return
}

func clipAxis(size, screen int) (n, dst, src int) {
	if size <= screen {
		return size, (screen - size) / 2, 0
	}
	return screen, 0, (size - screen) / 2
}
