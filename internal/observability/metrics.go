// Package observability owns prometheus instrumentation for the stream
// layer: frame traffic, buffer resets, and transfer outcomes.
package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Transfer outcome labels.
const (
	OutcomeOK               = "ok"
	OutcomeTimeout          = "timeout"
	OutcomeChecksumMismatch = "checksum_mismatch"
	OutcomeCanceled         = "canceled"
	OutcomeRadioError       = "radio_error"
)

var (
	registerOnce sync.Once

	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrfstream",
			Subsystem: "link",
			Name:      "frames_sent_total",
			Help:      "Frames handed to the radio for transmission.",
		},
		[]string{"acked"},
	)
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrfstream",
			Subsystem: "link",
			Name:      "frames_received_total",
			Help:      "Raw frames read from the radio.",
		},
		[]string{"accepted"},
	)
	bufferResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nrfstream",
			Subsystem: "reassembly",
			Name:      "buffer_resets_total",
			Help:      "Reassembly buffers dropped after a conflicting frame count.",
		},
	)
	transfers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrfstream",
			Subsystem: "link",
			Name:      "transfers_total",
			Help:      "Finished receive cycles by outcome.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesSent, framesReceived, bufferResets, transfers)
	})
}

func RecordFrameSent(acked bool) {
	RegisterMetrics()
	framesSent.WithLabelValues(strconv.FormatBool(acked)).Inc()
}

func RecordFrameReceived(accepted bool) {
	RegisterMetrics()
	framesReceived.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

func AddBufferResets(n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	bufferResets.Add(float64(n))
}

func RecordTransfer(outcome string) {
	RegisterMetrics()
	transfers.WithLabelValues(outcome).Inc()
}
