package gifplayer

import (
	"errors"
	"time"
)

var errProductionEnded = errors.New("Frame production ended")

// frameEvent is an auto-resetting "new frame" signal. Setting an already set
// event is a no-op, and a successful wait resets it, so a waiter sees at
// most one pending frame no matter how many were produced.
type frameEvent struct {
	ch chan struct{}
}

func newFrameEvent() *frameEvent {
	return &frameEvent{ch: make(chan struct{}, 1)}
}

func (e *frameEvent) Set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

func (e *frameEvent) Reset() {
	select {
	case <-e.ch:
	default:
	}
}

// Wait waits for the event for up to timeout. It returns ErrTimeout when the
// timeout elapses and ErrStopped when stop is closed first. When done is
// closed, a pending event is still consumed, otherwise errProductionEnded
// is returned.
func (e *frameEvent) Wait(timeout time.Duration, stop, done <-chan struct{}) error {
	select {
	case <-stop:
		return ErrStopped
	default:
	}

	if timeout <= 0 {
		select {
		case <-e.ch:
			return nil
		default:
		}
		select {
		case <-done:
			return errProductionEnded
		default:
			return ErrTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-e.ch:
		return nil
	case <-stop:
		return ErrStopped
	case <-done:
		return e.pending()
	case <-timer.C:
		return ErrTimeout
	}
}

// pending consumes a set event left behind by a finished producer.
func (e *frameEvent) pending() error {
	select {
	case <-e.ch:
		return nil
	default:
		return errProductionEnded
	}
}
