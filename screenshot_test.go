package sprig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	r := newTestRenderer(t, DefaultConfig())
	r.Screenshot("a")
	r.Screenshot("b")
	r.Screenshot("c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.screenshotQueue); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	if got := DefaultConfig().ScreenshotDir; got != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", got, "screenshots")
	}
}

func TestFlushWithoutScreenshotsLeavesDirAlone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	r := newTestRenderer(t, cfg)

	r.Begin()
	r.Flush(ebiten.NewImage(4, 4))

	if _, err := os.Stat(cfg.ScreenshotDir); !os.IsNotExist(err) {
		t.Errorf("screenshot dir created without a queued screenshot: %v", err)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-alpha orange
		0, 0, 0, 0, // transparent
		10, 10, 10, 5, // clamped
	}
	img := unpremultiply(pixels, 2, 2)
	want := []byte{
		255, 0, 0, 255,
		127, 63, 0, 128,
		0, 0, 0, 0,
		255, 255, 255, 5,
	}
	if diff := cmp.Diff(want, img.Pix); diff != "" {
		t.Errorf("unpremultiply mismatch (-want +got):\n%s", diff)
	}
}
