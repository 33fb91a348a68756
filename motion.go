package starfield

import "math"

// ReferenceTPS is the tick rate the per-frame motion constants are tuned for.
const ReferenceTPS = 60

// Motion defaults.
const (
	DefaultDriftRate   = 0.003
	DefaultEase        = 0.05
	DefaultSensitivity = 0.001
)

// MotionConfig tunes the field rotation.
type MotionConfig struct {
	// DriftRate is the autonomous rotation about Y per reference frame, in
	// radians.
	DriftRate float64
	// Ease is the fraction of the remaining distance to the pointer target
	// covered per reference frame. 1 snaps.
	Ease float64
	// Sensitivity converts pointer offset pixels to target radians.
	Sensitivity float64
}

// DefaultMotionConfig returns the production motion constants.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		DriftRate:   DefaultDriftRate,
		Ease:        DefaultEase,
		Sensitivity: DefaultSensitivity,
	}
}

func (m MotionConfig) withDefaults() MotionConfig {
	if m.DriftRate == 0 {
		m.DriftRate = DefaultDriftRate
	}
	if m.Ease <= 0 || m.Ease > 1 {
		m.Ease = DefaultEase
	}
	if m.Sensitivity == 0 {
		m.Sensitivity = DefaultSensitivity
	}
	return m
}

// RotationState is the rigid rotation shared by the particles and their
// connections. Drift accumulates separately from the eased parallax terms so
// that pointer easing never cancels it.
type RotationState struct {
	Drift     float64
	ParallaxX float64
	ParallaxY float64
}

// AboutX returns the rotation about the X axis in radians.
func (r RotationState) AboutX() float64 {
	return r.ParallaxX
}

// AboutY returns the rotation about the Y axis in radians.
func (r RotationState) AboutY() float64 {
	return r.Drift + r.ParallaxY
}

// RotationTarget is the parallax rotation the pointer asks for.
type RotationTarget struct {
	AboutX, AboutY float64
}

// TargetFromOffset maps a pointer offset from the viewport center to a
// rotation target. Horizontal movement turns the field about Y, vertical
// movement about X.
func (m MotionConfig) TargetFromOffset(offset Vec2) RotationTarget {
	return RotationTarget{
		AboutX: offset.Y * m.Sensitivity,
		AboutY: offset.X * m.Sensitivity,
	}
}

// Advance returns the rotation dt seconds after r. At dt = 1/ReferenceTPS it
// applies exactly one frame of drift and one step of exponential easing.
func (m MotionConfig) Advance(r RotationState, target RotationTarget, dt float64) RotationState {
	if !(dt > 0) {
		return r
	}
	frames := dt * ReferenceTPS
	r.Drift += m.DriftRate * frames

	k := m.Ease
	if frames != 1 {
		k = 1 - math.Pow(1-m.Ease, frames)
	}
	r.ParallaxX += (target.AboutX - r.ParallaxX) * k
	r.ParallaxY += (target.AboutY - r.ParallaxY) * k
	return r
}
