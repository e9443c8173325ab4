package gifplayer

import (
	"fmt"
	"image"
	"time"
)

// DisposalMethod tells what to do with the area of a displayed frame before
// the next frame is drawn.
type DisposalMethod int

const (
	// DisposalUndefined is used when the frame declares no disposal.
	DisposalUndefined DisposalMethod = iota
	// DisposalNone leaves the frame in place.
	DisposalNone
	// DisposalBackground clears the frame area.
	DisposalBackground
	// DisposalPrevious restores the composed frame saved before the frame was drawn.
	DisposalPrevious
)

func (d DisposalMethod) String() string {
	switch d {
	case DisposalUndefined:
		return "Undefined"
	case DisposalNone:
		return "None"
	case DisposalBackground:
		return "Background"
	case DisposalPrevious:
		return "Previous"
	default:
		return fmt.Sprintf("DisposalMethod(%d)", int(d))
	}
}

// FrameMetadata describes a single frame of an animation.
type FrameMetadata struct {
	// Index is the 0-based position of the frame.
	Index int
	// Rect is the area of the canvas covered by the frame.
	Rect image.Rectangle
	// Delay is the normalized display duration of the frame.
	Delay time.Duration
	// Disposal is applied to Rect before the next frame is drawn.
	Disposal DisposalMethod
}
