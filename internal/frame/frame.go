// Package frame owns the stream wire contract: packing one logical payload
// into an ordered sequence of link-sized frames and parsing raw frames back
// into their fields.
//
// Wire layout (all numeric fields hex-ASCII encoded):
//
//	frame 0:      [marker][count:2][index:2][payload...]
//	frames 1..N:  [index:2][payload...]
//	last frame:   trailing [checksum:4] over the logical payload
package frame

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/danmuck/nrfstream/internal/crc16"
)

const (
	// Marker identifies frame 0 of a transfer; the frame-count field
	// immediately follows it.
	Marker = "c0ffee"

	// IndexWidth is the hex-encoded width of the frame-index and
	// frame-count fields.
	IndexWidth = 2
	// ChecksumWidth is the hex-encoded width of the payload checksum.
	ChecksumWidth = 4

	// DefaultMaxFrameSize matches the 32-byte packet limit of
	// nRF24-class radios.
	DefaultMaxFrameSize = 32

	// MinFrameSize is the smallest usable frame size: frame 0 must fit
	// the marker, the count, and its own index.
	MinFrameSize = len(Marker) + 2*IndexWidth

	// MaxFrames is the largest frame count the count field can declare.
	MaxFrames = 255
)

var (
	ErrFrameSizeTooSmall  = errors.New("frame: max frame size cannot hold marker, count and index")
	ErrFrameCountOverflow = errors.New("frame: payload needs more frames than the count field can declare")
)

// Pack splits payload into self-describing frames no longer than
// maxFrameSize bytes. Frame 0 carries the marker and the total frame count;
// the last frame carries the checksum of the payload. Output is a pure
// function of (payload, maxFrameSize). An empty payload still produces one
// frame.
func Pack(payload []byte, maxFrameSize int) ([][]byte, error) {
	if maxFrameSize < MinFrameSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrFrameSizeTooSmall, maxFrameSize, MinFrameSize)
	}
	// Every frame reserves IndexWidth bytes for its index field.
	chunkSize := maxFrameSize - IndexWidth

	sum := crc16.Checksum(payload)

	wrapped := make([]byte, 0, len(Marker)+IndexWidth+len(payload)+ChecksumWidth)
	wrapped = append(wrapped, Marker...)
	wrapped = append(wrapped, "00"...) // count placeholder, written below
	wrapped = append(wrapped, payload...)
	wrapped = appendHex(wrapped, sum, ChecksumWidth)

	count := (len(wrapped) + chunkSize - 1) / chunkSize
	if count > MaxFrames {
		return nil, fmt.Errorf("%w: %d frames for %d payload bytes", ErrFrameCountOverflow, count, len(payload))
	}
	copy(wrapped[len(Marker):], hexField(uint16(count), IndexWidth))

	headLen := len(Marker) + IndexWidth
	frames := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		end := (i + 1) * chunkSize
		if end > len(wrapped) {
			end = len(wrapped)
		}
		chunk := wrapped[i*chunkSize : end]

		out := make([]byte, 0, len(chunk)+IndexWidth)
		if i == 0 {
			// Frame 0's index slots in after the marker+count region,
			// which already occupies the leading bytes.
			out = append(out, chunk[:headLen]...)
			out = appendHex(out, uint16(i), IndexWidth)
			out = append(out, chunk[headLen:]...)
		} else {
			out = appendHex(out, uint16(i), IndexWidth)
			out = append(out, chunk...)
		}
		frames = append(frames, out)
	}
	return frames, nil
}

// Info is the decoded view of one raw frame. Count is only meaningful when
// HasCount is set, which happens for the marker-bearing frame 0.
type Info struct {
	Payload  []byte
	Index    uint8
	Count    uint8
	HasCount bool
}

// Parse decodes one raw frame. It never fails hard: anything malformed
// (short frame, non-hex index or count) reports ok=false and is discarded
// by the caller, which relies on the end-of-transfer checksum rather than
// per-frame validation.
func Parse(raw []byte) (Info, bool) {
	var info Info
	rest := raw
	if bytes.HasPrefix(rest, []byte(Marker)) {
		count, ok := parseHexByte(rest[len(Marker):])
		if !ok {
			return Info{}, false
		}
		info.Count = count
		info.HasCount = true
		rest = rest[len(Marker)+IndexWidth:]
	}
	index, ok := parseHexByte(rest)
	if !ok {
		return Info{}, false
	}
	info.Index = index
	info.Payload = append([]byte(nil), rest[IndexWidth:]...)
	return info, true
}

func parseHexByte(b []byte) (uint8, bool) {
	if len(b) < IndexWidth {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[:IndexWidth]), 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func hexField(v uint16, width int) []byte {
	return appendHex(nil, v, width)
}

func appendHex(dst []byte, v uint16, width int) []byte {
	return fmt.Appendf(dst, "%0*x", width, v)
}
