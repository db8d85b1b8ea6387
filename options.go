package nrfstream

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/nrfstream/internal/frame"
	"github.com/danmuck/nrfstream/internal/logging"
)

// Options tune one Link. Zero-valued fields fall back to DefaultOptions,
// except Logger: a zero Logger stays disabled.
type Options struct {
	// MaxFrameSize is the largest frame the radio can carry, in bytes.
	MaxFrameSize int
	// SendRetries is the link-level retry budget requested per frame.
	SendRetries int
	// ReceiveTimeout is the inactivity window: the longest gap allowed
	// between accepted frames before a receive cycle is abandoned.
	ReceiveTimeout time.Duration
	// PollInterval is how long the radio stays in receive mode between
	// availability checks.
	PollInterval time.Duration
	// Logger receives frame-level diagnostics.
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxFrameSize:   frame.DefaultMaxFrameSize,
		SendRetries:    12,
		ReceiveTimeout: 100 * time.Millisecond,
		PollInterval:   100 * time.Millisecond,
		Logger:         logging.Runtime(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxFrameSize == 0 {
		o.MaxFrameSize = def.MaxFrameSize
	}
	if o.SendRetries == 0 {
		o.SendRetries = def.SendRetries
	}
	if o.ReceiveTimeout == 0 {
		o.ReceiveTimeout = def.ReceiveTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = def.PollInterval
	}
	return o
}
