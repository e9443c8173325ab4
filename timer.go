package gifplayer

import (
	"context"
	"time"
)

// frameTimer paces frames against an absolute schedule so that the time
// spent composing a frame does not add up to the delays.
type frameTimer struct {
	next time.Time
	// lateFrames counts frames whose deadline had passed before the wait.
	lateFrames int
}

func (t *frameTimer) Reset() {
	t.next = time.Now()
	t.lateFrames = 0
}

// WaitFor waits until d after the previous deadline or until ctx is done.
// A deadline that has already passed restarts the schedule from now. A
// non-positive d only checks ctx.
func (t *frameTimer) WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t.next = t.next.Add(d)
	wait := time.Until(t.next)
	if wait <= 0 {
		t.lateFrames++
		t.next = time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(wait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
