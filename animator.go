package gifplayer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Animator plays an animation into a frame buffer at the pace dictated by
// the frame delays and hands the latest composed frame to consumers.
type Animator struct {
	device  GraphicsDevice
	opener  DecoderOpener
	options Options
	logger  logrus.FieldLogger

	// runMutex guards the lifecycle fields below.
	runMutex  sync.Mutex
	isRunning bool
	stopped   chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}

	errMutex sync.Mutex
	err      error

	// mutex is held while a frame is composed and rendered and while a
	// consumer copies it out.
	mutex          sync.Mutex
	decoder        DecodeService
	composer       *composer
	publishSurface DrawingSurface
	meta           GlobalMetadata

	newFrame *frameEvent
	timer    frameTimer
}

// NewAnimator creates an Animator rendering with device. opener is used by
// Start to open sources and may be nil if only StartDecoder is used.
func NewAnimator(device GraphicsDevice, opener DecoderOpener, options Options) *Animator {
	done := make(chan struct{})
	close(done)
	return &Animator{
		device:   device,
		opener:   opener,
		options:  options,
		logger:   options.logger(),
		done:     done,
		newFrame: newFrameEvent(),
	}
}

// Start opens source and starts playing it.
func (animator *Animator) Start(source string) error {
	if animator.opener == nil {
		return fmt.Errorf("Animator has no decoder opener for %q", source)
	}
	decoder, err := animator.opener.Open(source)
	if err != nil {
		return fmt.Errorf("opening %q: %w", source, err)
	}
	if err = animator.StartDecoder(decoder); err != nil {
		decoder.Close()
		return err
	}
	return nil
}

// StartDecoder starts playing an already opened animation. The Animator
// owns decoder from then on and closes it on Stop.
func (animator *Animator) StartDecoder(decoder DecodeService) error {
	animator.runMutex.Lock()
	defer animator.runMutex.Unlock()

	if animator.isRunning {
		return ErrAlreadyRunning
	}

	if decoder.FrameCount() == 0 {
		return ErrNoFrames
	}

	meta, err := ExtractGlobalMetadata(decoder, animator.logger)
	if err != nil {
		return err
	}

	c, err := newComposer(animator.device, decoder, meta, animator.options, animator.logger)
	if err != nil {
		return err
	}
	publishSurface, err := animator.device.NewSurface(meta.RenderWidth, meta.RenderHeight)
	if err != nil {
		c.Close()
		return fmt.Errorf("allocating publish surface: %w", err)
	}

	animator.mutex.Lock()
	animator.decoder = decoder
	animator.composer = c
	animator.publishSurface = publishSurface
	animator.meta = meta
	animator.mutex.Unlock()

	animator.newFrame.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	animator.cancel = cancel
	animator.stopped = make(chan struct{})
	animator.done = make(chan struct{})
	animator.setErr(nil)
	animator.isRunning = true

	animator.logger.WithFields(logrus.Fields{
		"frames":  decoder.FrameCount(),
		"width":   meta.Width,
		"height":  meta.Height,
		"loops":   meta.TotalLoopCount,
		"hasLoop": meta.HasLoop,
	}).Info("Animator started")

	go animator.doDraw(ctx, animator.done)
	return nil
}

// Stop stops playing and waits until the production goroutine has exited.
// Stop on a stopped Animator is a no-op.
func (animator *Animator) Stop() {
	animator.runMutex.Lock()
	defer animator.runMutex.Unlock()

	if !animator.isRunning {
		return
	}

	animator.cancel()
	close(animator.stopped)
	<-animator.done
	animator.newFrame.Reset()

	animator.mutex.Lock()
	animator.composer.Close()
	animator.composer = nil
	animator.publishSurface.Close()
	animator.publishSurface = nil
	if err := animator.decoder.Close(); err != nil {
		animator.logger.WithError(err).Warn("Could not close decoder")
	}
	animator.decoder = nil
	animator.mutex.Unlock()

	animator.isRunning = false
	animator.logger.Info("Animator stopped")
}

// Done returns a channel that is closed when the production goroutine exits,
// because of Stop, the end of the animation or a failure.
func (animator *Animator) Done() <-chan struct{} {
	animator.runMutex.Lock()
	defer animator.runMutex.Unlock()
	return animator.done
}

// Err returns the error that ended production, if any.
func (animator *Animator) Err() error {
	animator.errMutex.Lock()
	defer animator.errMutex.Unlock()
	return animator.err
}

func (animator *Animator) setErr(err error) {
	animator.errMutex.Lock()
	animator.err = err
	animator.errMutex.Unlock()
}

// Metadata returns the global metadata of the playing animation.
func (animator *Animator) Metadata() GlobalMetadata {
	animator.mutex.Lock()
	defer animator.mutex.Unlock()
	return animator.meta
}

// LoopNumber returns the number of loops started so far.
func (animator *Animator) LoopNumber() int {
	animator.mutex.Lock()
	defer animator.mutex.Unlock()
	if animator.composer == nil {
		return 0
	}
	return animator.composer.loopNumber
}

// WaitAndFetch waits up to timeout for a new frame and copies it into
// frame. The frame buffer is reused when large enough.
//
// It returns ErrTimeout if no frame was produced in time. Once production
// has ended and the last frame was fetched, it returns the error that ended
// production, or ErrStopped. On any other error the frame is reset.
func (animator *Animator) WaitAndFetch(timeout time.Duration, frame *PublishedFrame) error {
	animator.runMutex.Lock()
	if !animator.isRunning {
		stopped := animator.stopped != nil
		animator.runMutex.Unlock()
		if stopped {
			return ErrStopped
		}
		return ErrNotRunning
	}
	stop := animator.stopped
	done := animator.done
	animator.runMutex.Unlock()

	if err := animator.newFrame.Wait(timeout, stop, done); err != nil {
		if errors.Is(err, errProductionEnded) {
			if prodErr := animator.Err(); prodErr != nil {
				return prodErr
			}
			return ErrStopped
		}
		return err
	}

	animator.mutex.Lock()
	defer animator.mutex.Unlock()

	if animator.publishSurface == nil {
		return ErrStopped
	}

	staging, err := animator.device.Stage(animator.publishSurface, animator.options.PixelFormat)
	if err == nil {
		err = frame.copyFrom(staging)
	}
	if err != nil {
		frame.reset()
		return fmt.Errorf("fetching frame: %w", err)
	}
	return nil
}

func (animator *Animator) doDraw(ctx context.Context, done chan struct{}) {
	defer close(done)

	animator.timer.Reset()
	for {
		delay, finished, err := animator.drawNextFrame()
		if err != nil {
			animator.logger.WithError(err).Error("Composing frame failed")
			animator.setErr(err)
			return
		}

		animator.newFrame.Set()

		// A zero delay last frame is still shown for the shortest delay a
		// GIF can declare.
		if delay < delayUnit {
			delay = delayUnit
		}
		lateFrames := animator.timer.lateFrames
		if err = animator.timer.WaitFor(ctx, delay); err != nil {
			return
		}
		if animator.timer.lateFrames != lateFrames && animator.timer.lateFrames%100 == 0 {
			animator.logger.WithField("late", animator.timer.lateFrames).Warn("Animator is falling behind")
		}

		if finished {
			animator.logger.Debug("Animation finished")
			return
		}
	}
}

// drawNextFrame composes the next frame and renders it to the publish
// surface. It returns the delay of the frame and whether production should
// end after it.
func (animator *Animator) drawNextFrame() (time.Duration, bool, error) {
	animator.mutex.Lock()
	defer animator.mutex.Unlock()

	c := animator.composer
	if err := c.ComposeNext(); err != nil {
		return 0, false, err
	}

	err := Paint(animator.publishSurface,
		NewClearAllDrawOperation(animator.publishSurface, color.Transparent),
		NewDrawSurfaceOperation(c.composed),
	)
	if err != nil {
		return 0, false, fmt.Errorf("rendering frame %d: %w", c.shown.Index, err)
	}

	animator.logger.WithFields(logrus.Fields{
		"frame": c.shown.Index,
		"loop":  c.loopNumber,
		"delay": c.shown.Delay,
	}).Debug("Composed frame")

	finished := c.frameCount <= 1
	if animator.options.LoopPolicy == LoopHonorCount && c.endOfAnimation() {
		finished = true
	}
	return c.shown.Delay, finished, nil
}
