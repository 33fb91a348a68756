package starfield

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Production defaults.
const (
	DefaultCount      = 200
	DefaultSpread     = 70.0
	DefaultThreshold  = 9.0
	DefaultRingDelay  = 50 * time.Millisecond
	DefaultRingOffset = 12.0
	DefaultPointSize  = 2.0
	DefaultLineWidth  = 1.0
	DefaultFadeIn     = 1500 * time.Millisecond

	// gridLinkerMin is the particle count at which the automatic linker
	// switches from pairwise scanning to grid buckets.
	gridLinkerMin = 512
)

var (
	// #64ffda
	defaultPointColor = Color{R: 100.0 / 255, G: 1, B: 218.0 / 255, A: 0.8}
	defaultLineColor  = Color{R: 100.0 / 255, G: 1, B: 218.0 / 255, A: 0.12}
)

// SurfaceAllocator creates a render surface of the given device-pixel size.
type SurfaceAllocator func(w, h int) (*Surface, error)

// Config controls the particle field, its motion and the cursor trail.
// Zero-valued fields are replaced by production defaults, except FadeIn
// where zero disables the fade.
type Config struct {
	// Count is the number of particles in the field.
	Count int
	// Spread is the edge length of the cube particles are scattered in,
	// centered on the origin.
	Spread float64
	// Threshold is the distance below which two particles are connected.
	Threshold float64

	// Motion tunes drift and pointer parallax.
	Motion MotionConfig

	// RingDelay is how far the ring marker lags the pointer.
	RingDelay time.Duration
	// RingOffset recenters the ring marker on the pointer.
	RingOffset float64

	// Camera configures the perspective projection.
	Camera CameraConfig

	// PointSize is the particle radius in logical pixels.
	PointSize float64
	// LineWidth is the connection stroke width in logical pixels.
	LineWidth float64
	// PointColor tints particles.
	PointColor Color
	// LineColor tints connections.
	LineColor Color
	// FadeIn is the duration of the opacity ramp after Start.
	FadeIn time.Duration

	// Linker derives connections. Nil picks one based on Count.
	Linker Linker
	// Rand is the random source for particle placement. Nil seeds from the
	// clock.
	Rand Float64Source

	// Debug logs per-frame timing stats.
	Debug bool
	// ShowStats attaches an FPS and connection count overlay to the mount.
	ShowStats bool
	// Logger receives log lines. Defaults to os.Stderr.
	Logger io.Writer
	// NewSurface allocates the render surface. Defaults to an offscreen
	// ebiten image.
	NewSurface SurfaceAllocator
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Count:      DefaultCount,
		Spread:     DefaultSpread,
		Threshold:  DefaultThreshold,
		Motion:     DefaultMotionConfig(),
		RingDelay:  DefaultRingDelay,
		RingOffset: DefaultRingOffset,
		Camera:     DefaultCameraConfig(),
		PointSize:  DefaultPointSize,
		LineWidth:  DefaultLineWidth,
		PointColor: defaultPointColor,
		LineColor:  defaultLineColor,
		FadeIn:     DefaultFadeIn,
		Logger:     os.Stderr,
	}
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	if c.Spread <= 0 {
		c.Spread = DefaultSpread
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	c.Motion = c.Motion.withDefaults()
	if c.RingDelay <= 0 {
		c.RingDelay = DefaultRingDelay
	}
	if c.RingOffset == 0 {
		c.RingOffset = DefaultRingOffset
	}
	c.Camera = c.Camera.withDefaults()
	if c.PointSize <= 0 {
		c.PointSize = DefaultPointSize
	}
	if c.LineWidth <= 0 {
		c.LineWidth = DefaultLineWidth
	}
	if c.PointColor == (Color{}) {
		c.PointColor = defaultPointColor
	}
	if c.LineColor == (Color{}) {
		c.LineColor = defaultLineColor
	}
	if c.Linker == nil {
		if c.Count >= gridLinkerMin {
			c.Linker = &GridLinker{}
		} else {
			c.Linker = BruteForceLinker{}
		}
	}
	if c.Rand == nil {
		c.Rand = newTimeSeededRand()
	}
	if c.Logger == nil {
		c.Logger = os.Stderr
	}
	if c.NewSurface == nil {
		c.NewSurface = NewSurface
	}
	return c
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into a Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// logf writes a prefixed log line.
func logf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "[starfield] "+format+"\n", args...)
}
