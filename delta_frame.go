package gifplayer

// deltaFrame is a frame that is not drawn completely, but partially,
// given the previous frame.
type deltaFrame struct {
	FrameMetadata
	drawOperation DrawOperation
}

// Draw draws a frame delta.
func (frame *deltaFrame) Draw(surface DrawingSurface) error {
	return frame.drawOperation.Draw(surface)
}
