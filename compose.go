package gifplayer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
)

// disposers holds the transition applied to the composed frame when the
// currently displayed frame is vacated, one per disposal method.
var disposers = map[DisposalMethod]func(*composer) error{
	DisposalUndefined:  (*composer).disposeNone,
	DisposalNone:       (*composer).disposeNone,
	DisposalBackground: (*composer).disposeBackground,
	DisposalPrevious:   (*composer).disposePrevious,
}

// composer rebuilds the visible frame of an animation from its delta frames.
//
// A composer is not safe for concurrent use; the Animator serializes access.
type composer struct {
	device     GraphicsDevice
	decoder    DecodeService
	frameCount int
	meta       GlobalMetadata
	logger     logrus.FieldLogger

	normalizeDelay bool
	clearColor     color.Color
	cache          *frameCache

	composed DrawingSurface
	saved    DrawingSurface

	nextFrameIndex int
	loopNumber     int
	// shown is the frame currently displayed on composed.
	shown FrameMetadata
}

func newComposer(device GraphicsDevice, decoder DecodeService, meta GlobalMetadata, options Options, logger logrus.FieldLogger) (*composer, error) {
	frameCount := decoder.FrameCount()
	if frameCount <= 0 {
		return nil, ErrNoFrames
	}

	composed, err := device.NewSurface(meta.Width, meta.Height)
	if err != nil {
		return nil, fmt.Errorf("allocating compose surface: %w", err)
	}

	c := &composer{
		device:         device,
		decoder:        decoder,
		frameCount:     frameCount,
		meta:           meta,
		logger:         logger,
		normalizeDelay: !options.DisableDelayNormalization,
		clearColor:     color.Transparent,
		composed:       composed,
		// No frame has been shown yet, so there is nothing to dispose.
		shown: FrameMetadata{Disposal: DisposalNone},
	}
	if options.ClearToBackground {
		c.clearColor = meta.BackgroundColor
	}
	if options.CacheFrames {
		c.cache = newFrameCache(frameCount)
	}
	return c, nil
}

// ComposeNext disposes the shown frame and overlays the next one. Zero
// delay frames are composed together with the frames following them, up
// to the last frame of the animation.
func (c *composer) ComposeNext() error {
	if err := c.composeFrame(); err != nil {
		return err
	}

	for c.shown.Delay == 0 && !c.isLastFrame() {
		if err := c.composeFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) composeFrame() error {
	if err := c.dispose(); err != nil {
		return err
	}
	return c.overlayNext()
}

func (c *composer) dispose() error {
	disposer, ok := disposers[c.shown.Disposal]
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidDisposal, c.shown.Disposal)
	}
	return disposer(c)
}

// disposeNone leaves the shown frame in place, the next frame is drawn over it.
func (c *composer) disposeNone() error {
	return nil
}

// disposeBackground clears the area of the shown frame.
func (c *composer) disposeBackground() error {
	return Paint(c.composed, NewClearDrawOperation(c.shown.Rect, c.clearColor))
}

// disposePrevious restores the composed frame saved before the shown frame
// was drawn.
func (c *composer) disposePrevious() error {
	if c.saved == nil {
		return ErrNoSavedFrame
	}
	return c.composed.CopyFrom(c.saved)
}

func (c *composer) overlayNext() error {
	frame, err := c.loadFrame(c.nextFrameIndex)
	if err != nil {
		return err
	}

	// The frame will be disposed by restoring what is under it.
	if frame.Disposal == DisposalPrevious {
		if err = c.saveComposed(); err != nil {
			return err
		}
	}

	startsLoop := c.nextFrameIndex == 0
	ops := make([]DrawOperation, 0, 2)
	if startsLoop {
		ops = append(ops, NewClearAllDrawOperation(c.composed, c.clearColor))
	}
	ops = append(ops, frame)

	if err = Paint(c.composed, ops...); err != nil {
		return fmt.Errorf("drawing frame %d: %w", frame.Index, err)
	}

	if startsLoop {
		c.loopNumber++
	}
	c.shown = frame.FrameMetadata
	c.nextFrameIndex = (c.nextFrameIndex + 1) % c.frameCount
	return nil
}

func (c *composer) saveComposed() error {
	if c.saved == nil {
		size := c.composed.Size()
		saved, err := c.device.NewSurface(size.X, size.Y)
		if err != nil {
			return fmt.Errorf("allocating saved frame: %w", err)
		}
		c.saved = saved
	}
	return c.saved.CopyFrom(c.composed)
}

func (c *composer) loadFrame(index int) (*deltaFrame, error) {
	if frame, ok := c.cache.get(index); ok {
		return frame, nil
	}

	decoded, err := c.decoder.Frame(index)
	if err != nil {
		return nil, fmt.Errorf("decoding frame %d: %w", index, err)
	}
	meta, err := ExtractFrameMetadata(decoded.Metadata, index, c.normalizeDelay)
	if err != nil {
		return nil, err
	}
	pixmap := decoded.Pixmap
	if pixmap == nil {
		return nil, fmt.Errorf("frame %d has no pixel data", index)
	}
	if size := (image.Point{pixmap.Width, pixmap.Height}); size != meta.Rect.Size() {
		return nil, fmt.Errorf("frame %d pixel data is %v, descriptor is %v", index, size, meta.Rect.Size())
	}

	if err = c.cache.put(meta, pixmap); err != nil {
		c.logger.WithError(err).WithField("frame", index).Warn("Could not cache frame")
	}

	return &deltaFrame{
		FrameMetadata: meta,
		drawOperation: NewDrawPixmapOperation(meta.Rect.Min, pixmap),
	}, nil
}

// isLastFrame reports whether the shown frame is the last of the animation.
func (c *composer) isLastFrame() bool {
	return c.nextFrameIndex == 0
}

// endOfAnimation reports whether the declared number of loops has been
// shown completely.
func (c *composer) endOfAnimation() bool {
	return c.meta.HasLoop && c.isLastFrame() && c.loopNumber >= c.meta.TotalLoopCount
}

func (c *composer) Close() {
	if c.saved != nil {
		c.saved.Close()
		c.saved = nil
	}
	if c.composed != nil {
		c.composed.Close()
		c.composed = nil
	}
}
