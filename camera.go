package starfield

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera defaults.
const (
	DefaultFOV      = 75.0
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
	DefaultDistance = 30.0
)

// CameraConfig configures the perspective projection.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Distance is how far the camera sits from the origin along +Z, looking
	// towards it.
	Distance float64
}

// DefaultCameraConfig returns the production camera.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Distance: DefaultDistance,
	}
}

func (c CameraConfig) withDefaults() CameraConfig {
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = DefaultFOV
	}
	if c.Near <= 0 {
		c.Near = DefaultNear
	}
	if c.Far <= c.Near {
		c.Far = max(DefaultFar, c.Near*10)
	}
	if c.Distance <= 0 {
		c.Distance = DefaultDistance
	}
	return c
}

// Camera projects field-space points to surface pixels.
type Camera struct {
	config CameraConfig
	aspect float64

	viewProj mgl64.Mat4
	dirty    bool
}

// NewCamera creates a camera with the given aspect ratio.
func NewCamera(cfg CameraConfig, aspect float64) *Camera {
	c := &Camera{config: cfg.withDefaults(), dirty: true}
	c.SetAspect(aspect)
	return c
}

// Aspect returns the width/height ratio the projection uses.
func (c *Camera) Aspect() float64 {
	return c.aspect
}

// Config returns the camera parameters.
func (c *Camera) Config() CameraConfig {
	return c.config
}

// SetAspect updates the aspect ratio. Non-positive values are ignored.
func (c *Camera) SetAspect(aspect float64) {
	if !(aspect > 0) || !finite(aspect) || aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.dirty = true
}

// ViewProjection returns projection * view, recomputed only when the aspect
// changed.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	if c.dirty {
		proj := mgl64.Perspective(mgl64.DegToRad(c.config.FOV), c.aspect, c.config.Near, c.config.Far)
		view := mgl64.Translate3D(0, 0, -c.config.Distance)
		c.viewProj = proj.Mul4(view)
		c.dirty = false
	}
	return c.viewProj
}

// rotationMatrix returns the model matrix for r: rotate about X, then Y,
// applied to points as Rx * Ry * p.
func rotationMatrix(r RotationState) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(r.AboutX()).Mul4(mgl64.HomogRotate3DY(r.AboutY()))
}

// project maps p through mvp onto a w×h surface. depth is the clip-space W,
// the point's distance in front of the camera. ok is false when the point
// lies outside the near/far range.
func project(mvp mgl64.Mat4, p Vec3, w, h float64) (x, y, depth float64, ok bool) {
	clip := mvp.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	cw := clip.W()
	if cw <= 0 {
		return 0, 0, 0, false
	}
	nz := clip.Z() / cw
	if nz < -1 || nz > 1 {
		return 0, 0, 0, false
	}
	x = (clip.X()/cw + 1) * 0.5 * w
	y = (1 - clip.Y()/cw) * 0.5 * h
	return x, y, cw, true
}

// WorldToScreen projects a field-space point under rotation r onto a
// surface of w×h pixels.
func (c *Camera) WorldToScreen(p Vec3, r RotationState, w, h float64) (x, y float64, ok bool) {
	x, y, _, ok = project(c.ViewProjection().Mul4(rotationMatrix(r)), p, w, h)
	return x, y, ok
}

// PointRadius returns the on-screen radius of a particle of the given size
// at depth, so that particles shrink with distance. A particle at the origin
// keeps its nominal size.
func (c *Camera) PointRadius(size, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return size * c.config.Distance / depth
}
