package job

import "github.com/rs/zerolog"

// Sink receives progress updates. Publish must not block the caller.
type Sink interface {
	Publish(Progress)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(Progress)

func (f SinkFunc) Publish(p Progress) { f(p) }

// ChannelSink delivers updates on a buffered channel, dropping updates when the
// reader falls behind.
type ChannelSink struct {
	C chan Progress
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{C: make(chan Progress, size)}
}

func (s *ChannelSink) Publish(p Progress) {
	select {
	case s.C <- p:
	default:
	}
}

// LogSink writes each update to a zerolog logger at debug level
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Publish(p Progress) {
	event := s.Logger.Debug()
	if p.Percent != nil {
		event = event.Float64("percent", *p.Percent)
	}
	event.Msg(p.Message)
}
