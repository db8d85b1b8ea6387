// Package radiotest provides a scriptable in-memory radio for exercising
// the stream layer without hardware.
package radiotest

import "sync"

// Radio is an in-memory transport. Frames handed to Send are recorded and,
// when loopback is enabled, queued for the receive side. Ack results can be
// scripted per send; once the script runs out every send is acknowledged.
type Radio struct {
	mu        sync.Mutex
	queue     [][]byte
	sent      [][]byte
	acks      []bool
	sendErr   error
	loopback  bool
	listening bool
	powered   bool
}

func New() *Radio {
	return &Radio{}
}

// Loopback routes acknowledged sends back into the receive queue.
func (r *Radio) Loopback(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loopback = on
}

// Enqueue places raw frames on the receive queue.
func (r *Radio) Enqueue(frames ...[]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range frames {
		r.queue = append(r.queue, append([]byte(nil), f...))
	}
}

// ScriptAcks sets the ack result for upcoming sends, in order.
func (r *Radio) ScriptAcks(acks ...bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks = append(r.acks, acks...)
}

// FailSends makes every subsequent Send return err.
func (r *Radio) FailSends(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendErr = err
}

// Sent returns copies of every frame handed to Send so far.
func (r *Radio) Sent() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.sent))
	for i, f := range r.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Powered reports the current power state.
func (r *Radio) Powered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.powered
}

// Listening reports the current receive-mode state.
func (r *Radio) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

func (r *Radio) SetPower(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.powered = on
}

func (r *Radio) SetListen(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = on
}

func (r *Radio) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue) > 0
}

func (r *Radio) Read() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil, nil
	}
	raw := r.queue[0]
	r.queue = r.queue[1:]
	return raw, nil
}

func (r *Radio) Send(frame []byte, retries int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return false, r.sendErr
	}
	cp := append([]byte(nil), frame...)
	r.sent = append(r.sent, cp)

	acked := true
	if len(r.acks) > 0 {
		acked = r.acks[0]
		r.acks = r.acks[1:]
	}
	if acked && r.loopback {
		r.queue = append(r.queue, cp)
	}
	return acked, nil
}
