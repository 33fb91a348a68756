package starfield

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// renderable is one of the two drawn objects. Both share the field's
// rotation; they are kept separate so each can be drawn and inspected on its
// own.
type renderable struct {
	rotation RotationState
}

// Scene owns the render surface, camera, particle field and connection
// geometry, and renders one frame per RenderFrame call.
type Scene struct {
	cfg      Config
	field    Field
	camera   *Camera
	viewport Viewport

	surface     *Surface
	surfaceNode *Node

	rotation RotationState
	points   renderable
	lines    renderable

	conns     []Connection
	lineVerts []Vec3 // two vertices per connection, in field space

	fade    *gween.Tween
	opacity float64

	frames   int
	disposed bool
}

// NewScene creates a scene for field sized to vp. cfg must already have
// defaults applied (Lifecycle does this); zero fields are filled otherwise.
func NewScene(cfg Config, field Field, vp Viewport) (*Scene, error) {
	cfg = cfg.withDefaults()
	vp = vp.clamped()

	w, h := vp.PhysicalSize()
	surface, err := cfg.NewSurface(w, h)
	if err != nil {
		return nil, fmt.Errorf("starfield: create surface: %w", err)
	}

	s := &Scene{
		cfg:      cfg,
		field:    field,
		camera:   NewCamera(cfg.Camera, vp.Aspect()),
		viewport: vp,
		surface:  surface,
		opacity:  1,
	}
	s.surfaceNode = NewSprite("starfield_surface", surface.Image())
	s.surfaceNode.ScaleX = 1 / vp.ScaleFactor
	s.surfaceNode.ScaleY = 1 / vp.ScaleFactor

	if cfg.FadeIn > 0 {
		s.opacity = 0
		s.fade = gween.New(0, 1, float32(cfg.FadeIn.Seconds()), ease.OutCubic)
	}
	return s, nil
}

// Node returns the display node holding the render surface.
func (s *Scene) Node() *Node {
	return s.surfaceNode
}

// Field returns the particle positions.
func (s *Scene) Field() Field {
	return s.field
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Surface returns the render surface.
func (s *Scene) Surface() *Surface {
	return s.surface
}

// Viewport returns the viewport the scene is sized to.
func (s *Scene) Viewport() Viewport {
	return s.viewport
}

// Rotation returns the current rotation.
func (s *Scene) Rotation() RotationState {
	return s.rotation
}

// Connections returns the connections computed by the last frame. The slice is
// reused by the next frame.
func (s *Scene) Connections() []Connection {
	return s.conns
}

// Opacity returns the current fade-in opacity in [0, 1].
func (s *Scene) Opacity() float64 {
	return s.opacity
}

// Frames returns the number of frames rendered.
func (s *Scene) Frames() int {
	return s.frames
}

// RenderFrame advances the rotation dt seconds using the pointer state,
// applies it to particles and connections, relinks the field and draws.
func (s *Scene) RenderFrame(pointer PointerState, dt float64) {
	if s.disposed {
		return
	}
	var stats debugStats
	var t0 time.Time
	if s.cfg.Debug {
		t0 = time.Now()
	}

	target := s.cfg.Motion.TargetFromOffset(pointer.Offset)
	s.rotation = s.cfg.Motion.Advance(s.rotation, target, dt)
	s.points.rotation = s.rotation
	s.lines.rotation = s.rotation

	if s.fade != nil {
		v, done := s.fade.Update(float32(dt))
		s.opacity = clamp01(float64(v))
		if done {
			s.opacity = 1
			s.fade = nil
		}
	}

	// Connections come from the unrotated positions: the rotation is rigid,
	// so distances are the same either way.
	s.conns = s.cfg.Linker.Link(s.conns, s.field, s.cfg.Threshold)
	s.rebuildLines()

	if s.cfg.Debug {
		stats.linkTime = time.Since(t0)
		t0 = time.Now()
	}

	s.draw()
	s.frames++

	if s.cfg.Debug {
		stats.drawTime = time.Since(t0)
		stats.particleCount = len(s.field)
		stats.connectionCount = len(s.conns)
		debugLog(s.cfg.Logger, stats)
	}
}

// rebuildLines regenerates the line vertex buffer from the connection list.
func (s *Scene) rebuildLines() {
	s.lineVerts = s.lineVerts[:0]
	for _, c := range s.conns {
		s.lineVerts = append(s.lineVerts, s.field[c.I], s.field[c.J])
	}
}

// draw clears the surface and strokes connections under the particles.
func (s *Scene) draw() {
	img := s.surface.Image()
	if img == nil {
		return
	}
	img.Clear()
	if s.opacity <= 0 {
		return
	}

	w, h := s.surface.Size()
	fw, fh := float64(w), float64(h)
	dpr := s.viewport.ScaleFactor
	vp := s.camera.ViewProjection()

	lineMVP := vp.Mul4(rotationMatrix(s.lines.rotation))
	lineCol := s.cfg.LineColor.withAlpha(s.opacity).toRGBA()
	lineW := float32(s.cfg.LineWidth * dpr)
	for k := 0; k+1 < len(s.lineVerts); k += 2 {
		x0, y0, _, ok0 := project(lineMVP, s.lineVerts[k], fw, fh)
		x1, y1, _, ok1 := project(lineMVP, s.lineVerts[k+1], fw, fh)
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(img, float32(x0), float32(y0), float32(x1), float32(y1), lineW, lineCol, true)
	}

	pointMVP := vp.Mul4(rotationMatrix(s.points.rotation))
	pointCol := s.cfg.PointColor.withAlpha(s.opacity).toRGBA()
	size := s.cfg.PointSize * dpr
	for _, p := range s.field {
		x, y, depth, ok := project(pointMVP, p, fw, fh)
		if !ok {
			continue
		}
		r := float32(s.camera.PointRadius(size, depth))
		vector.FillCircle(img, float32(x), float32(y), r, pointCol, true)
	}
}

// Resize syncs the camera aspect and the surface size to vp. The old surface
// is kept if a new one cannot be allocated.
func (s *Scene) Resize(vp Viewport) error {
	if s.disposed {
		return nil
	}
	vp = vp.clamped()
	s.viewport = vp
	s.camera.SetAspect(vp.Aspect())
	s.surfaceNode.ScaleX = 1 / vp.ScaleFactor
	s.surfaceNode.ScaleY = 1 / vp.ScaleFactor

	w, h := vp.PhysicalSize()
	if cw, ch := s.surface.Size(); cw == w && ch == h {
		return nil
	}
	surface, err := s.cfg.NewSurface(w, h)
	if err != nil {
		return fmt.Errorf("starfield: resize surface to %dx%d: %w", w, h, err)
	}
	s.surface.Dispose()
	s.surface = surface
	s.surfaceNode.SetImage(surface.Image())
	return nil
}

// Dispose releases the surface and detaches it from its mount point.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.surfaceNode.SetImage(nil)
	s.surfaceNode.Dispose()
	s.surface.Dispose()
	s.conns = nil
	s.lineVerts = nil
}
