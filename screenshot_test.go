package starfield

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-sweep", "after-sweep"},
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
	l := NewLoop(RunConfig{Width: 100, Height: 100})
	l.Screenshot("a")
	l.Screenshot("b")
	l.Screenshot("c")
	if len(l.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(l.screenshotQueue))
	}
	for i, want := range []string{"a", "b", "c"} {
		if c := l.screenshotQueue[i]; c.label != want || c.src != nil {
			t.Errorf("queue[%d] = %+v, want screen capture %q", i, c, want)
		}
	}
}

func TestScreenshotImageIgnoresNil(t *testing.T) {
	l := NewLoop(RunConfig{Width: 100, Height: 100})
	l.ScreenshotImage("surface", nil)
	if len(l.screenshotQueue) != 0 {
		t.Errorf("queue len = %d, want 0", len(l.screenshotQueue))
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		64, 32, 0, 128, // half-transparent
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // clear
		200, 200, 200, 100, // over-bright premultiplied value clamps
	}
	img := unpremultiply(pixels, 2, 2)
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", b)
	}
	want := []color.NRGBA{
		{127, 63, 0, 128},
		{10, 20, 30, 255},
		{0, 0, 0, 0},
		{255, 255, 255, 100},
	}
	for i, w := range want {
		if got := img.NRGBAAt(i%2, i/2); got != w {
			t.Errorf("pixel %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestScreenshotName(t *testing.T) {
	at := time.Date(2025, 11, 24, 9, 5, 3, 0, time.UTC)
	if got := screenshotName(at, 2, "after sweep"); got != "starfield_20251124-090503_02_after_sweep.png" {
		t.Errorf("screenshotName = %q", got)
	}
}

func TestScreenshotDirConfig(t *testing.T) {
	l := NewLoop(RunConfig{ScreenshotDir: "out/shots"})
	if l.config.ScreenshotDir != "out/shots" {
		t.Errorf("ScreenshotDir = %q, want %q", l.config.ScreenshotDir, "out/shots")
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[3] = 255
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected error for missing directory")
	}
}
