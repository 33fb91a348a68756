package starfield

import "errors"

// FrameID identifies a requested animation frame.
type FrameID uint64

// Host is the environment a field is mounted into: it reports the viewport,
// delivers pointer and resize events, runs one-shot frame callbacks and
// deferred calls. All callbacks run on a single thread, never concurrently.
type Host interface {
	Scheduler

	// Viewport returns the current viewport.
	Viewport() Viewport
	// RequestFrame runs fn once on the next frame with the seconds elapsed
	// since the previous frame.
	RequestFrame(fn func(dt float64)) FrameID
	// CancelFrame drops a frame request that has not run yet.
	CancelFrame(id FrameID)
	// OnPointerMove registers a pointer listener in viewport pixels.
	OnPointerMove(fn func(x, y float64)) CallbackHandle
	// OnResize registers a viewport listener.
	OnResize(fn func(Viewport)) CallbackHandle
}

// Lifecycle creates the field, markers and listeners on Start and tears all of
// them down on Stop.
type Lifecycle struct {
	host Host
	cfg  Config

	mount   *Node
	scene   *Scene
	input   *InputTracker
	trail   *CursorTrail
	dot     *Node
	ring    *Node
	overlay *Node

	frame      FrameID
	frameArmed bool
	moveHandle CallbackHandle
	sizeHandle CallbackHandle
	running    bool
}

// NewLifecycle prepares a lifecycle on host. Nothing is created until Start.
func NewLifecycle(host Host, cfg Config) *Lifecycle {
	return &Lifecycle{host: host, cfg: cfg.withDefaults()}
}

// Running reports whether the field is mounted and animating.
func (l *Lifecycle) Running() bool {
	return l.running
}

// Scene returns the running scene, or nil.
func (l *Lifecycle) Scene() *Scene {
	return l.scene
}

// Trail returns the running cursor trail, or nil.
func (l *Lifecycle) Trail() *CursorTrail {
	return l.trail
}

// Pointer returns the latest pointer state.
func (l *Lifecycle) Pointer() PointerState {
	if l.input == nil {
		return PointerState{}
	}
	return l.input.State()
}

// Start mounts the field under mount, installs the pointer and resize
// listeners and begins the frame loop.
//
// A nil or disposed mount is a no-op returning ErrMountUnavailable. If the render surface
// cannot be allocated the failure is logged, nothing is mounted and the error
// wraps ErrSurfaceUnavailable. Neither is fatal to the host.
func (l *Lifecycle) Start(mount *Node) error {
	if l.running {
		return ErrAlreadyStarted
	}
	if mount == nil || mount.IsDisposed() {
		return ErrMountUnavailable
	}

	vp := l.host.Viewport().clamped()
	field := Generate(l.cfg.Count, l.cfg.Spread, l.cfg.Rand)
	scene, err := NewScene(l.cfg, field, vp)
	if err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			logf(l.cfg.Logger, "render surface unavailable, field disabled: %v", err)
		}
		return err
	}

	l.mount = mount
	l.scene = scene
	l.dot = newDotMarker(l.cfg.PointColor.withAlpha(1))
	l.ring = newRingMarker(l.cfg.PointColor.withAlpha(0.6))
	mount.AddChild(scene.Node())
	mount.AddChild(l.ring)
	mount.AddChild(l.dot)
	if l.cfg.ShowStats {
		l.overlay = newStatsOverlay(scene)
		mount.AddChild(l.overlay)
	}

	l.input = NewInputTracker(vp)
	l.trail = NewCursorTrail(l.host, l.cfg.RingDelay, l.cfg.RingOffset, l.dot, l.ring)
	l.moveHandle = l.host.OnPointerMove(l.handlePointerMove)
	l.sizeHandle = l.host.OnResize(l.handleResize)

	l.running = true
	l.requestFrame()
	return nil
}

// Stop cancels the pending frame, removes both listeners, cancels the pending
// ring update, disposes the scene and removes everything Start mounted. The
// pointer state and markers are discarded with it. Safe to call before the
// first frame, from inside a frame, and more than once.
func (l *Lifecycle) Stop() {
	if !l.running {
		return
	}
	l.running = false

	if l.frameArmed {
		l.host.CancelFrame(l.frame)
		l.frameArmed = false
	}
	l.moveHandle.Remove()
	l.sizeHandle.Remove()
	l.moveHandle = CallbackHandle{}
	l.sizeHandle = CallbackHandle{}

	l.trail.Stop()
	l.scene.Dispose()
	l.dot.Dispose()
	l.ring.Dispose()
	if l.overlay != nil {
		l.overlay.Dispose()
		l.overlay = nil
	}
	l.mount = nil
	l.scene = nil
	l.input = nil
	l.trail = nil
	l.dot = nil
	l.ring = nil
}

func (l *Lifecycle) requestFrame() {
	l.frame = l.host.RequestFrame(l.tick)
	l.frameArmed = true
}

// tick renders one frame and re-arms unless Stop ran meanwhile.
func (l *Lifecycle) tick(dt float64) {
	l.frameArmed = false
	if !l.running {
		return
	}
	l.scene.RenderFrame(l.input.State(), dt)
	if l.running {
		l.requestFrame()
	}
}

func (l *Lifecycle) handlePointerMove(x, y float64) {
	if !l.running {
		return
	}
	l.input.Move(x, y)
	l.trail.Move(x, y)
}

func (l *Lifecycle) handleResize(vp Viewport) {
	if !l.running {
		return
	}
	l.input.SetViewport(vp)
	if err := l.scene.Resize(vp); err != nil {
		logf(l.cfg.Logger, "%v", err)
	}
}
