package nrfstream

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/nrfstream/internal/frame"
	"github.com/danmuck/nrfstream/internal/observability"
	"github.com/danmuck/nrfstream/internal/reassembly"
)

// Link drives framed transfers over one Radio. A Link holds no transfer
// state between calls; each Send or Receive is one complete attempt.
type Link struct {
	radio Radio
	opts  Options
	log   zerolog.Logger
}

func NewLink(radio Radio, opts Options) *Link {
	opts = opts.withDefaults()
	return &Link{radio: radio, opts: opts, log: opts.Logger}
}

// Send packs payload into frames and transmits each one with the configured
// link-level retry budget. It reports true only when the radio acknowledged
// every frame; transmission stops at the first frame that goes
// unacknowledged. Pack failures (ErrFrameCountOverflow,
// ErrFrameSizeTooSmall) surface as errors before anything is transmitted.
func (l *Link) Send(ctx context.Context, payload []byte) (bool, error) {
	frames, err := frame.Pack(payload, l.opts.MaxFrameSize)
	if err != nil {
		return false, err
	}

	l.radio.SetPower(true)
	l.radio.SetListen(false)
	defer l.radio.SetPower(false)

	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		acked, err := l.radio.Send(f, l.opts.SendRetries)
		observability.RecordFrameSent(err == nil && acked)
		if err != nil {
			return false, fmt.Errorf("send frame %d/%d: %w", i+1, len(frames), err)
		}
		if !acked {
			l.log.Warn().
				Int("frame", i).
				Int("frames", len(frames)).
				Msg("no ack from radio")
			return false, nil
		}
		l.log.Trace().
			Int("frame", i).
			Int("frames", len(frames)).
			Int("len", len(f)).
			Msg("frame acknowledged")
	}
	l.log.Debug().
		Int("frames", len(frames)).
		Int("payload", len(payload)).
		Msg("payload transmitted")
	return true, nil
}

// Receive runs exactly one reassembly cycle: it polls the radio at the
// configured interval, feeds each raw frame to a fresh collector, and
// returns the recovered payload once every declared frame arrived and its
// checksum validates. It fails with ErrTimeout when the inactivity window
// elapses first, ErrChecksumMismatch when the reconstructed payload is
// corrupt, and ctx.Err() when the caller abandons the cycle. Malformed
// frames are discarded without aborting the cycle.
func (l *Link) Receive(ctx context.Context) ([]byte, error) {
	collector := reassembly.NewCollector()
	deadline := time.Now().Add(l.opts.ReceiveTimeout)

	defer func() {
		observability.AddBufferResets(collector.Resets())
	}()

	for {
		if time.Now().After(deadline) {
			buffered, expected := collector.Progress()
			l.log.Warn().
				Int("buffered", buffered).
				Int("expected", expected).
				Msg("receive timed out")
			observability.RecordTransfer(observability.OutcomeTimeout)
			return nil, ErrTimeout
		}

		l.radio.SetListen(true)
		if err := sleep(ctx, l.opts.PollInterval); err != nil {
			l.radio.SetListen(false)
			observability.RecordTransfer(observability.OutcomeCanceled)
			return nil, err
		}
		l.radio.SetListen(false)

		if !l.radio.Available() {
			continue
		}
		raw, err := l.radio.Read()
		if err != nil {
			observability.RecordTransfer(observability.OutcomeRadioError)
			return nil, fmt.Errorf("read frame: %w", err)
		}

		accepted := collector.Offer(raw)
		observability.RecordFrameReceived(accepted)
		if !accepted {
			l.log.Debug().Int("len", len(raw)).Msg("discarded malformed frame")
			continue
		}
		// Only accepted frames restart the inactivity window.
		deadline = time.Now().Add(l.opts.ReceiveTimeout)

		buffered, expected := collector.Progress()
		l.log.Trace().
			Int("buffered", buffered).
			Int("expected", expected).
			Msg("frame buffered")

		if collector.Complete() {
			payload, err := collector.Assemble()
			if err != nil {
				l.log.Warn().Err(err).Msg("reassembled payload rejected")
				observability.RecordTransfer(observability.OutcomeChecksumMismatch)
				return nil, err
			}
			l.log.Debug().Int("payload", len(payload)).Msg("payload recovered")
			observability.RecordTransfer(observability.OutcomeOK)
			return payload, nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
