package gifplayer

import "errors"

var (
	// ErrTimeout is returned by WaitAndFetch when no new frame was produced
	// within the timeout. It is an expected outcome, not a failure.
	ErrTimeout = errors.New("Timed out waiting for a frame")

	// ErrStopped is returned by WaitAndFetch after Stop was called.
	ErrStopped = errors.New("Animator is stopped")

	// ErrAlreadyRunning is returned by Start on a running Animator.
	ErrAlreadyRunning = errors.New("Animator is already running")

	// ErrNotRunning is returned by WaitAndFetch before Start was called.
	ErrNotRunning = errors.New("Animator is not running")

	// ErrNoFrames is returned by Start when the source has no frames.
	ErrNoFrames = errors.New("Source has no frames")

	// ErrMetadataNotFound is returned by a MetadataReader for absent fields.
	ErrMetadataNotFound = errors.New("Metadata field not found")

	// ErrMetadataType is returned when a metadata field has an unexpected kind.
	ErrMetadataType = errors.New("Metadata field has unexpected type")

	// ErrNoSavedFrame is returned when a frame with disposal Previous must be
	// disposed but no composed frame was saved before it was drawn.
	ErrNoSavedFrame = errors.New("No saved frame to restore")

	// ErrInvalidDisposal is returned for disposal methods outside the known set.
	ErrInvalidDisposal = errors.New("Invalid disposal method")

	// ErrSurfaceNotActive is returned by drawing calls outside Begin/End.
	ErrSurfaceNotActive = errors.New("Surface is not active")

	// ErrSurfaceActive is returned by Begin inside an open transaction.
	ErrSurfaceActive = errors.New("Surface is already active")

	// ErrSurfaceClosed is returned by any call on a closed surface.
	ErrSurfaceClosed = errors.New("Surface is closed")

	// ErrFrameBufferTooLarge is returned when a published frame would not fit
	// into the largest buffer WaitAndFetch is willing to allocate.
	ErrFrameBufferTooLarge = errors.New("Frame buffer is too large")
)
