package gifplayer

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LoopPolicy controls whether the declared loop count ends playback.
type LoopPolicy int

const (
	// LoopForever replays the animation until Stop regardless of the
	// declared loop count.
	LoopForever LoopPolicy = iota
	// LoopHonorCount stops producing frames after the last frame of the
	// declared number of loops has been shown.
	LoopHonorCount
)

// Options configures an Animator. The zero value is usable.
type Options struct {
	// Logger receives the animator log. Nothing is logged when it is nil.
	Logger logrus.FieldLogger

	// DisableDelayNormalization keeps frame delays below 20ms as they are
	// instead of raising them to 90ms. Zero delay frames are then composed
	// together with the following frame.
	DisableDelayNormalization bool

	// LoopPolicy is LoopForever by default.
	LoopPolicy LoopPolicy

	// ClearToBackground clears disposed areas and new loops with the
	// background color instead of transparent.
	ClearToBackground bool

	// PixelFormat of published frames, PRGBA32 or PBGRA32.
	PixelFormat PixelFormat

	// CacheFrames keeps decoded frames run-length packed after the first
	// loop so later loops do not decode again.
	CacheFrames bool
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}
