package nrfstream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/nrfstream/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "link.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOptionsOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
max_frame_size = 64
send_retries = 5
receive_timeout = "250ms"
poll_interval = "20ms"
log_level = "debug"
`)
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	if opts.MaxFrameSize != 64 {
		t.Fatalf("unexpected max frame size %d", opts.MaxFrameSize)
	}
	if opts.SendRetries != 5 {
		t.Fatalf("unexpected send retries %d", opts.SendRetries)
	}
	if opts.ReceiveTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected receive timeout %v", opts.ReceiveTimeout)
	}
	if opts.PollInterval != 20*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", opts.PollInterval)
	}
}

func TestLoadOptionsDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "")
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	def := DefaultOptions()
	if opts.MaxFrameSize != def.MaxFrameSize {
		t.Fatalf("max frame size %d, want default %d", opts.MaxFrameSize, def.MaxFrameSize)
	}
	if opts.SendRetries != def.SendRetries {
		t.Fatalf("send retries %d, want default %d", opts.SendRetries, def.SendRetries)
	}
	if opts.ReceiveTimeout != def.ReceiveTimeout {
		t.Fatalf("receive timeout %v, want default %v", opts.ReceiveTimeout, def.ReceiveTimeout)
	}
}

func TestLoadOptionsRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		content string
	}{
		{"frame size below minimum", "max_frame_size = 8"},
		{"negative retries", "send_retries = -1"},
		{"bad duration", `receive_timeout = "soon"`},
		{"negative duration", `poll_interval = "-5ms"`},
		{"unknown log level", `log_level = "loud"`},
		{"not toml", "max_frame_size = = ="},
	}
	for _, tc := range cases {
		path := writeConfig(t, tc.content)
		if _, err := LoadOptions(path); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
