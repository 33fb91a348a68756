package starfield

import (
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxFrameDelta caps the dt handed to frame callbacks after a stall.
const maxFrameDelta = 0.25

// RunConfig configures the window opened by Loop.Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Transparent makes the window background show through wherever
	// nothing is drawn.
	Transparent bool
	// ClearColor fills the screen before the tree is drawn. Zero leaves it
	// transparent.
	ClearColor Color
	// HideCursor hides the system cursor so only the trail markers show.
	HideCursor bool
	// ScreenshotDir is where F12 and scripted screenshots are written.
	// Defaults to "screenshots".
	ScreenshotDir string
}

type frameRequest struct {
	id FrameID
	fn func(dt float64)
}

type timerEntry struct {
	id  TimerID
	due time.Time
	fn  func()
}

// Loop is the Ebitengine Host: it implements ebiten.Game, polls the cursor,
// tracks the window size and scale factor, runs frame callbacks and deferred
// calls on the game goroutine, and draws the node tree.
type Loop struct {
	config RunConfig
	root   *Node

	handlers handlerRegistry
	viewport Viewport

	frames    []frameRequest
	batch     []frameRequest
	nextFrame FrameID

	timers    []timerEntry
	dueTimers []timerEntry
	nextTimer TimerID

	cursor     Vec2
	cursorSeen bool
	lastTick   time.Time

	injectQueue     []Vec2
	testRunner      *TestRunner
	screenshotQueue []capture
	updateFunc      func() error

	// Replaced in tests.
	now            func() time.Time
	scaleFactor    func() float64
	setWindowSize  func(w, h int)
	cursorPosition func() (int, int)
}

// NewLoop creates a loop whose root node is the mount point for Lifecycle.
func NewLoop(cfg RunConfig) *Loop {
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	l := &Loop{
		config:         cfg,
		root:           NewContainer("root"),
		now:            time.Now,
		scaleFactor:    monitorScaleFactor,
		setWindowSize:  ebiten.SetWindowSize,
		cursorPosition: ebiten.CursorPosition,
	}
	l.viewport = Viewport{Width: float64(cfg.Width), Height: float64(cfg.Height), ScaleFactor: 1}.clamped()
	return l
}

func monitorScaleFactor() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Root returns the root node.
func (l *Loop) Root() *Node {
	return l.root
}

// SetUpdateFunc sets a callback run at the end of every Update. Returning a
// non-nil error (such as ebiten.Termination) ends the loop.
func (l *Loop) SetUpdateFunc(fn func() error) {
	l.updateFunc = fn
}

// Run opens the window and blocks until it is closed.
func (l *Loop) Run() error {
	ebiten.SetWindowTitle(l.config.Title)
	ebiten.SetWindowSize(l.config.Width, l.config.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if l.config.HideCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	return ebiten.RunGameWithOptions(l, &ebiten.RunGameOptions{
		ScreenTransparent: l.config.Transparent,
	})
}

// --- Host ---

// Viewport implements Host.
func (l *Loop) Viewport() Viewport {
	return l.viewport
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return l.now()
}

// AfterFunc implements Scheduler. fn runs on the first Update at or after
// the deadline; calls due on the same tick run in deadline order.
func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID {
	l.nextTimer++
	l.timers = append(l.timers, timerEntry{id: l.nextTimer, due: l.now().Add(d), fn: fn})
	return l.nextTimer
}

// CancelTimer implements Scheduler.
func (l *Loop) CancelTimer(id TimerID) {
	l.timers = slices.DeleteFunc(l.timers, func(t timerEntry) bool { return t.id == id })
	for i := range l.dueTimers {
		if l.dueTimers[i].id == id {
			l.dueTimers[i].fn = nil
		}
	}
}

// RequestFrame implements Host. Requests made while frames are running are
// deferred to the next tick.
func (l *Loop) RequestFrame(fn func(dt float64)) FrameID {
	l.nextFrame++
	l.frames = append(l.frames, frameRequest{id: l.nextFrame, fn: fn})
	return l.nextFrame
}

// CancelFrame implements Host.
func (l *Loop) CancelFrame(id FrameID) {
	l.frames = slices.DeleteFunc(l.frames, func(f frameRequest) bool { return f.id == id })
	for i := range l.batch {
		if l.batch[i].id == id {
			l.batch[i].fn = nil
		}
	}
}

// OnPointerMove implements Host.
func (l *Loop) OnPointerMove(fn func(x, y float64)) CallbackHandle {
	return l.handlers.onPointerMove(fn)
}

// OnResize implements Host.
func (l *Loop) OnResize(fn func(Viewport)) CallbackHandle {
	return l.handlers.onResize(fn)
}

// --- ebiten.Game ---

// Update dispatches input, fires due timers, then runs the frame callbacks
// requested before this tick.
func (l *Loop) Update() error {
	now := l.now()
	dt := l.frameDelta(now)

	if l.testRunner != nil {
		l.testRunner.step(l)
	}
	l.processInput()
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		l.Screenshot("manual")
	}
	l.runTimers(now)
	l.runFrames(dt)
	updateNodes(l.root, dt)

	if l.updateFunc != nil {
		return l.updateFunc()
	}
	return nil
}

// Draw paints the node tree at device resolution and flushes screenshots.
func (l *Loop) Draw(screen *ebiten.Image) {
	if l.config.ClearColor.A > 0 {
		screen.Fill(l.config.ClearColor.toRGBA())
	}
	var geo ebiten.GeoM
	geo.Scale(l.viewport.ScaleFactor, l.viewport.ScaleFactor)
	drawNode(screen, l.root, geo, 1)
	l.flushScreenshots(screen)
}

// Layout tracks the window size and scale factor and renders at device
// resolution.
func (l *Loop) Layout(outsideWidth, outsideHeight int) (int, int) {
	l.setViewport(Viewport{
		Width:       float64(outsideWidth),
		Height:      float64(outsideHeight),
		ScaleFactor: l.scaleFactor(),
	})
	return l.viewport.PhysicalSize()
}

func (l *Loop) setViewport(vp Viewport) {
	vp = vp.clamped()
	if vp == l.viewport {
		return
	}
	l.viewport = vp
	l.handlers.emitResize(vp)
}

// --- internals ---

// frameDelta returns the seconds since the previous Update, capped at
// maxFrameDelta. The first tick, and any tick where the clock did not move
// forward, gets the nominal tick length instead.
func (l *Loop) frameDelta(now time.Time) float64 {
	prev := l.lastTick
	l.lastTick = now
	if prev.IsZero() {
		return nominalFrameDelta()
	}
	dt := now.Sub(prev).Seconds()
	if dt <= 0 {
		return nominalFrameDelta()
	}
	return min(dt, maxFrameDelta)
}

// nominalFrameDelta is one tick at the current TPS. TPS is negative under
// ebiten.SyncWithFPS, where the reference rate stands in.
func nominalFrameDelta() float64 {
	if tps := ebiten.TPS(); tps > 0 {
		return 1 / float64(tps)
	}
	return 1.0 / ReferenceTPS
}

// processInput emits one injected move if queued, otherwise a move whenever
// the real cursor position changed. The screen is laid out in device pixels,
// so the cursor is scaled back to viewport pixels first.
func (l *Loop) processInput() {
	if l.processInjectedInput() {
		return
	}
	cx, cy := l.cursorPosition()
	dpr := l.viewport.ScaleFactor
	pos := Vec2{float64(cx) / dpr, float64(cy) / dpr}
	if l.cursorSeen && pos == l.cursor {
		return
	}
	l.cursor = pos
	l.cursorSeen = true
	l.handlers.emitPointerMove(pos.X, pos.Y)
}

func (l *Loop) runTimers(now time.Time) {
	l.timers = slices.DeleteFunc(l.timers, func(t timerEntry) bool {
		if t.due.After(now) {
			return false
		}
		l.dueTimers = append(l.dueTimers, t)
		return true
	})
	slices.SortStableFunc(l.dueTimers, func(a, b timerEntry) int { return a.due.Compare(b.due) })
	for i := range l.dueTimers {
		fn := l.dueTimers[i].fn
		if fn == nil {
			continue
		}
		l.dueTimers[i].fn = nil
		fn()
	}
	l.dueTimers = l.dueTimers[:0]
}

func (l *Loop) runFrames(dt float64) {
	l.batch = l.frames
	l.frames = nil
	for i := range l.batch {
		fn := l.batch[i].fn
		if fn == nil {
			continue
		}
		l.batch[i].fn = nil
		fn(dt)
	}
	l.batch = nil
}
