package starfield

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// capture is a queued screenshot. A nil src captures the composed screen.
type capture struct {
	label string
	src   *ebiten.Image
}

// Screenshot queues a labeled screenshot of the composed window (field plus
// cursor markers), taken at the end of the next Draw and written to
// RunConfig.ScreenshotDir.
func (l *Loop) Screenshot(label string) {
	l.screenshotQueue = append(l.screenshotQueue, capture{label: label})
}

// ScreenshotImage queues a capture of img instead of the screen, such as the
// field's render surface without the markers.
func (l *Loop) ScreenshotImage(label string, img *ebiten.Image) {
	if img == nil {
		return
	}
	l.screenshotQueue = append(l.screenshotQueue, capture{label: label, src: img})
}

func (l *Loop) flushScreenshots(screen *ebiten.Image) {
	if len(l.screenshotQueue) == 0 {
		return
	}
	queue := l.screenshotQueue
	l.screenshotQueue = nil

	dir := l.config.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logf(os.Stderr, "screenshot: mkdir %s: %v", dir, err)
		return
	}

	var screenImg *image.NRGBA
	taken := l.now()
	for seq, c := range queue {
		var img *image.NRGBA
		if c.src != nil {
			img = readNRGBA(c.src)
		} else {
			if screenImg == nil {
				screenImg = readNRGBA(screen)
			}
			img = screenImg
		}
		path := filepath.Join(dir, screenshotName(taken, seq, c.label))
		if err := writePNG(path, img); err != nil {
			logf(os.Stderr, "screenshot: %v", err)
		}
	}
}

// readNRGBA copies the pixels of img into a straight-alpha image.
func readNRGBA(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	img.ReadPixels(pixels)
	return unpremultiply(pixels, b.Dx(), b.Dy())
}

// unpremultiply converts premultiplied RGBA bytes, as ebiten returns them,
// into an NRGBA image. pixels is reused as the image buffer.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	for px := pixels; len(px) >= 4; px = px[4:] {
		a := int(px[3])
		if a == 0 || a == 255 {
			continue
		}
		for c := range 3 {
			px[c] = uint8(min(int(px[c])*255/a, 255))
		}
	}
	return &image.NRGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
}

// screenshotName is "starfield_<date>-<time>_<seq>_<label>.png".
func screenshotName(t time.Time, seq int, label string) string {
	return fmt.Sprintf("starfield_%s_%02d_%s.png", t.Format("20060102-150405"), seq, sanitizeLabel(label))
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
