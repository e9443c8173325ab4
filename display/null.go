package display

import "github.com/rmcsoft/gifplayer"

type nullSink struct{}

// NewNullSink returns a Sink that drops every frame.
func NewNullSink() Sink {
	return nullSink{}
}

func (nullSink) Present(*gifplayer.PublishedFrame) error {
	return nil
}

func (nullSink) Close() error {
	return nil
}
