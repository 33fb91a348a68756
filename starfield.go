package starfield

import (
	"errors"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// withAlpha returns c with its alpha multiplied by a.
func (c Color) withAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill and the
// vector package.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for pointer positions, marker positions and
// offsets, in viewport pixels.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a point in field space.
type Vec3 struct {
	X, Y, Z float64
}

// Dist returns the Euclidean distance between p and q.
func (p Vec3) Dist(q Vec3) float64 {
	return math.Sqrt(p.distSq(q))
}

func (p Vec3) distSq(q Vec3) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// Viewport describes the host's drawable area in logical pixels, plus the
// device pixel ratio used to size the render surface.
type Viewport struct {
	Width, Height float64
	ScaleFactor   float64
}

// clamped returns v with non-positive or NaN dimensions replaced by 1.
func (v Viewport) clamped() Viewport {
	if !(v.Width >= 1) {
		v.Width = 1
	}
	if !(v.Height >= 1) {
		v.Height = 1
	}
	if !(v.ScaleFactor > 0) {
		v.ScaleFactor = 1
	}
	return v
}

// Center returns the viewport midpoint.
func (v Viewport) Center() Vec2 {
	return Vec2{v.Width / 2, v.Height / 2}
}

// Aspect returns width divided by height.
func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// PhysicalSize returns the surface size in device pixels.
func (v Viewport) PhysicalSize() (w, h int) {
	w = int(math.Round(v.Width * v.ScaleFactor))
	h = int(math.Round(v.Height * v.ScaleFactor))
	return max(w, 1), max(h, 1)
}

var (
	// ErrMountUnavailable is returned by Start when no mount point is given.
	ErrMountUnavailable = errors.New("starfield: mount point unavailable")
	// ErrSurfaceUnavailable is returned when the render surface cannot be
	// allocated.
	ErrSurfaceUnavailable = errors.New("starfield: render surface unavailable")
	// ErrAlreadyStarted is returned by Start on a running Lifecycle.
	ErrAlreadyStarted = errors.New("starfield: already started")
)
