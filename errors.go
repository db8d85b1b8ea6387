package nrfstream

import (
	"errors"

	"github.com/danmuck/nrfstream/internal/frame"
	"github.com/danmuck/nrfstream/internal/reassembly"
)

var (
	// ErrTimeout reports that the inactivity window elapsed before the
	// transfer completed. No partial payload is surfaced.
	ErrTimeout = errors.New("nrfstream: receive timed out")

	// ErrChecksumMismatch reports that the reassembled payload failed
	// end-of-transfer validation.
	ErrChecksumMismatch = reassembly.ErrChecksumMismatch

	// ErrFrameCountOverflow reports a payload that would need more frames
	// than the count field can declare.
	ErrFrameCountOverflow = frame.ErrFrameCountOverflow

	// ErrFrameSizeTooSmall reports a MaxFrameSize that cannot hold the
	// marker, count and index fields of frame 0.
	ErrFrameSizeTooSmall = frame.ErrFrameSizeTooSmall
)
