package nrfstream

// Radio is the transport boundary: a physical driver able to move one
// fixed-size packet at a time with link-level acknowledgment. The stream
// layer adds no transport-specific logic of its own. Implementations are
// driven from the single goroutine that owns the Link.
type Radio interface {
	// SetPower toggles the transceiver between powered and standby.
	SetPower(on bool)
	// SetListen toggles receive mode.
	SetListen(on bool)
	// Available reports, without blocking, whether a raw frame is ready
	// to be read.
	Available() bool
	// Read returns exactly one available raw frame.
	Read() ([]byte, error)
	// Send transmits one raw frame, retrying at the link layer up to
	// retries times, and reports whether an acknowledgment was observed.
	Send(frame []byte, retries int) (bool, error)
}
