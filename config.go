package nrfstream

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/nrfstream/internal/frame"
	"github.com/danmuck/nrfstream/internal/logging"
)

var ErrInvalidConfig = errors.New("nrfstream: invalid config")

// fileOptions is the TOML shape of a link configuration. Durations are
// strings in time.ParseDuration syntax.
type fileOptions struct {
	MaxFrameSize   int    `toml:"max_frame_size"`
	SendRetries    int    `toml:"send_retries"`
	ReceiveTimeout string `toml:"receive_timeout"`
	PollInterval   string `toml:"poll_interval"`
	LogLevel       string `toml:"log_level"`
}

// LoadOptions reads a TOML link configuration from path. Fields absent from
// the file keep their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	opts, err := parseOptions(data)
	if err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

func parseOptions(data []byte) (Options, error) {
	var raw fileOptions
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	opts := DefaultOptions()
	if raw.MaxFrameSize != 0 {
		if raw.MaxFrameSize < frame.MinFrameSize {
			return Options{}, fmt.Errorf("%w: max_frame_size %d below minimum %d",
				ErrInvalidConfig, raw.MaxFrameSize, frame.MinFrameSize)
		}
		opts.MaxFrameSize = raw.MaxFrameSize
	}
	if raw.SendRetries != 0 {
		if raw.SendRetries < 0 {
			return Options{}, fmt.Errorf("%w: send_retries %d", ErrInvalidConfig, raw.SendRetries)
		}
		opts.SendRetries = raw.SendRetries
	}
	if raw.ReceiveTimeout != "" {
		d, err := parsePositiveDuration("receive_timeout", raw.ReceiveTimeout)
		if err != nil {
			return Options{}, err
		}
		opts.ReceiveTimeout = d
	}
	if raw.PollInterval != "" {
		d, err := parsePositiveDuration("poll_interval", raw.PollInterval)
		if err != nil {
			return Options{}, err
		}
		opts.PollInterval = d
	}
	if raw.LogLevel != "" {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Options{}, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, raw.LogLevel)
		}
		opts.Logger = opts.Logger.Level(lvl)
	}
	return opts, nil
}

func parsePositiveDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidConfig, field, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %q", ErrInvalidConfig, field, raw)
	}
	return d, nil
}
