package gifplayer

// frameCache holds decoded frames run-length packed. A nil *frameCache is
// an empty cache that never stores anything.
type frameCache struct {
	frames []*deltaFrame
}

func newFrameCache(frameCount int) *frameCache {
	return &frameCache{frames: make([]*deltaFrame, frameCount)}
}

func (c *frameCache) get(index int) (*deltaFrame, bool) {
	if c == nil || index < 0 || index >= len(c.frames) || c.frames[index] == nil {
		return nil, false
	}
	return c.frames[index], true
}

func (c *frameCache) put(meta FrameMetadata, pixmap *Pixmap) error {
	if c == nil || meta.Index < 0 || meta.Index >= len(c.frames) {
		return nil
	}

	packed, err := PackPixmap(pixmap)
	if err != nil {
		return err
	}
	c.frames[meta.Index] = &deltaFrame{
		FrameMetadata: meta,
		drawOperation: NewDrawPackedPixmapOperation(meta.Rect.Min, packed),
	}
	return nil
}
