// Package reassembly owns the receive-side state machine: it buffers parsed
// frames for exactly one transfer attempt and validates the reconstructed
// payload against its trailing checksum.
package reassembly

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danmuck/nrfstream/internal/crc16"
	"github.com/danmuck/nrfstream/internal/frame"
)

var (
	// ErrChecksumMismatch reports that the reassembled payload failed
	// end-of-transfer validation. The payload is discarded, never
	// partially returned.
	ErrChecksumMismatch = errors.New("reassembly: checksum mismatch")

	// ErrIncomplete reports an Assemble call before every declared frame
	// arrived.
	ErrIncomplete = errors.New("reassembly: transfer incomplete")
)

// slots covers the full 2-hex-digit frame index space.
const slots = frame.MaxFrames + 1

// Collector buffers the frames of one in-progress transfer, keyed directly
// by frame index. One collector serves exactly one receive cycle and is
// discarded afterwards; it is driven from a single goroutine.
type Collector struct {
	buf      [slots][]byte
	seen     [slots]bool // occupancy; buf slices may be legitimately empty
	buffered int
	expected int // -1 until a marker frame declares the count
	resets   int
}

func NewCollector() *Collector {
	return &Collector{expected: -1}
}

// Offer parses one raw frame and records its payload slice. Malformed
// frames are discarded without touching the buffer and report false.
// Duplicate indices are overwritten, last write wins. A declared count
// smaller than the number of buffered entries signals a new transfer
// overwriting a stale one: the buffer is cleared and collection restarts
// with the offered frame.
func (c *Collector) Offer(raw []byte) bool {
	info, ok := frame.Parse(raw)
	if !ok {
		return false
	}
	if info.HasCount {
		total := int(info.Count)
		if c.buffered > total {
			c.clear()
			c.resets++
		}
		c.expected = total
	}
	if !c.seen[info.Index] {
		c.seen[info.Index] = true
		c.buffered++
	}
	c.buf[info.Index] = info.Payload
	return true
}

func (c *Collector) clear() {
	c.buf = [slots][]byte{}
	c.seen = [slots]bool{}
	c.buffered = 0
	c.expected = -1
}

// Complete reports whether every declared frame has been buffered. It stays
// false until some marker frame has declared the expected count.
func (c *Collector) Complete() bool {
	return c.expected >= 0 && c.buffered == c.expected
}

// Progress returns the number of buffered frames and the declared total,
// -1 while the total is still unknown.
func (c *Collector) Progress() (buffered, expected int) {
	return c.buffered, c.expected
}

// Resets returns how many stale-transfer buffer resets happened during this
// cycle.
func (c *Collector) Resets() int {
	return c.resets
}

// Assemble concatenates the buffered slices in ascending index order, splits
// off the trailing checksum field, and validates the recovered payload.
// A mismatch, or a missing or garbled checksum field, yields
// ErrChecksumMismatch.
func (c *Collector) Assemble() ([]byte, error) {
	if !c.Complete() {
		return nil, fmt.Errorf("%w: %d of %d frames", ErrIncomplete, c.buffered, c.expected)
	}
	var joined []byte
	for _, slice := range c.buf {
		joined = append(joined, slice...)
	}
	if len(joined) < frame.ChecksumWidth {
		return nil, fmt.Errorf("%w: no checksum field", ErrChecksumMismatch)
	}
	split := len(joined) - frame.ChecksumWidth
	payload, sumHex := joined[:split], joined[split:]

	want, err := strconv.ParseUint(string(sumHex), 16, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: bad checksum field %q", ErrChecksumMismatch, sumHex)
	}
	if got := crc16.Checksum(payload); got != uint16(want) {
		return nil, fmt.Errorf("%w: have %04x want %04x", ErrChecksumMismatch, got, want)
	}
	return payload, nil
}
