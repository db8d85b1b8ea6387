package reassembly

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/nrfstream/internal/frame"
	"github.com/danmuck/nrfstream/internal/testutil/testlog"
)

func mustPack(t *testing.T, payload []byte) [][]byte {
	t.Helper()
	frames, err := frame.Pack(payload, frame.DefaultMaxFrameSize)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return frames
}

func TestCollectInOrder(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("0123456789", 11))
	c := NewCollector()
	for i, f := range mustPack(t, payload) {
		if !c.Offer(f) {
			t.Fatalf("frame %d rejected", i)
		}
	}
	if !c.Complete() {
		t.Fatalf("collector not complete")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestCollectOrderIndependence(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("order-independence.", 10))
	frames := mustPack(t, payload)
	if len(frames) < 3 {
		t.Fatalf("need at least 3 frames, got %d", len(frames))
	}

	permutations := [][]int{
		{2, 0, 1},
		{len(frames) - 1, 0, 1},
	}
	// Reversed delivery: the marker frame arrives last.
	reversed := make([]int, len(frames))
	for i := range reversed {
		reversed[i] = len(frames) - 1 - i
	}
	permutations = append(permutations, reversed)

	for _, perm := range permutations {
		c := NewCollector()
		seen := make(map[int]bool)
		for _, idx := range perm {
			seen[idx] = true
			c.Offer(frames[idx])
		}
		for i := range frames {
			if !seen[i] {
				c.Offer(frames[i])
			}
		}
		if !c.Complete() {
			t.Fatalf("perm %v: not complete", perm)
		}
		got, err := c.Assemble()
		if err != nil {
			t.Fatalf("perm %v: assemble: %v", perm, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("perm %v: payload mismatch", perm)
		}
	}
}

func TestDuplicateFramesLastWriteWins(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("duplicate frames ", 8))
	frames := mustPack(t, payload)
	c := NewCollector()
	for _, f := range frames {
		c.Offer(f)
		c.Offer(f) // retransmission of the same frame
	}
	if !c.Complete() {
		t.Fatalf("collector not complete")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch after duplicates")
	}
}

func TestMalformedFramesAreDiscarded(t *testing.T) {
	testlog.Start(t)
	c := NewCollector()
	if c.Offer([]byte("zz-not-hex")) {
		t.Fatalf("malformed frame accepted")
	}
	if buffered, _ := c.Progress(); buffered != 0 {
		t.Fatalf("buffer touched by malformed frame: %d", buffered)
	}
}

func TestNoMarkerMeansNeverComplete(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("no marker frame ", 8))
	frames := mustPack(t, payload)
	c := NewCollector()
	for _, f := range frames[1:] {
		c.Offer(f)
	}
	if c.Complete() {
		t.Fatalf("complete without a declared count")
	}
	if _, err := c.Assemble(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestStaleTransferResetsBuffer(t *testing.T) {
	testlog.Start(t)
	stale := []byte(strings.Repeat("stale transfer payload ", 6)) // several frames
	staleFrames := mustPack(t, stale)
	if len(staleFrames) < 4 {
		t.Fatalf("need at least 4 stale frames, got %d", len(staleFrames))
	}

	fresh := []byte("fresh")
	freshFrames := mustPack(t, fresh)
	if len(freshFrames) != 1 {
		t.Fatalf("fresh payload should fit one frame, got %d", len(freshFrames))
	}

	c := NewCollector()
	for _, f := range staleFrames[:3] {
		c.Offer(f)
	}
	if buffered, _ := c.Progress(); buffered != 3 {
		t.Fatalf("expected 3 buffered stale frames, got %d", buffered)
	}

	// The fresh marker frame declares a smaller count than what is
	// buffered, which drops the stale buffer and completes on its own.
	if !c.Offer(freshFrames[0]) {
		t.Fatalf("fresh marker frame rejected")
	}
	if c.Resets() != 1 {
		t.Fatalf("expected 1 reset, got %d", c.Resets())
	}
	if !c.Complete() {
		t.Fatalf("fresh single-frame transfer should be complete")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(got, fresh) {
		t.Fatalf("got %q, want %q", got, fresh)
	}
}

func TestTruncatedFrameDoesNotInflateCount(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("123456789", 7))
	frames := mustPack(t, payload)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}

	c := NewCollector()
	// A frame truncated in transit down to its bare 2-hex index still
	// parses; it must occupy exactly one slot, not one per re-offer.
	if !c.Offer([]byte("01")) {
		t.Fatalf("index-only frame rejected")
	}
	c.Offer(frames[0])
	c.Offer(frames[1])
	if c.Complete() {
		t.Fatalf("complete with frame 2 still missing")
	}
	c.Offer(frames[2])
	if !c.Complete() {
		t.Fatalf("not complete after all frames arrived")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch after truncated garble")
	}
}

func TestDuplicateEmptyPayloadFrameCountsOnce(t *testing.T) {
	testlog.Start(t)
	// At the minimum frame size, frame 0 carries zero payload bytes.
	frames, err := frame.Pack([]byte("hi"), frame.MinFrameSize)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if len(frames) != 2 || string(frames[0]) != "c0ffee0200" {
		t.Fatalf("unexpected frames: %q", frames)
	}

	c := NewCollector()
	c.Offer(frames[0])
	c.Offer(frames[0]) // retransmission of the header-only frame
	if buffered, _ := c.Progress(); buffered != 1 {
		t.Fatalf("duplicate empty frame buffered %d times", buffered)
	}
	if c.Complete() {
		t.Fatalf("complete before the payload frame arrived")
	}
	c.Offer(frames[1])
	if !c.Complete() {
		t.Fatalf("not complete after both frames arrived")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestCorruptedPayloadFailsChecksum(t *testing.T) {
	testlog.Start(t)
	payload := []byte(strings.Repeat("corruption detection ", 6))
	frames := mustPack(t, payload)
	if len(frames) < 2 {
		t.Fatalf("need a multi-frame transfer")
	}
	// Flip one payload byte past the index field of a middle frame.
	frames[1][frame.IndexWidth] ^= 0x01

	c := NewCollector()
	for _, f := range frames {
		c.Offer(f)
	}
	if !c.Complete() {
		t.Fatalf("corrupted transfer should still complete collection")
	}
	if _, err := c.Assemble(); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestAssembleEmptyPayloadIsSuccess(t *testing.T) {
	testlog.Start(t)
	frames := mustPack(t, nil)
	c := NewCollector()
	for _, f := range frames {
		c.Offer(f)
	}
	if !c.Complete() {
		t.Fatalf("empty transfer not complete")
	}
	got, err := c.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got))
	}
}
