package starfield

import (
	"bytes"
	"math"
	"slices"
	"time"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// fakeHost is a manually driven Host: frames run on runFrame, timers fire on
// advance, and events are delivered by move and resize.
type fakeHost struct {
	vp       Viewport
	now      time.Time
	handlers handlerRegistry

	frames    []frameRequest
	nextFrame FrameID
	cancelled int

	timers    []timerEntry
	nextTimer TimerID
}

func newFakeHost(w, h, dpr float64) *fakeHost {
	return &fakeHost{
		vp:  Viewport{Width: w, Height: h, ScaleFactor: dpr},
		now: time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC),
	}
}

func (h *fakeHost) Viewport() Viewport { return h.vp }
func (h *fakeHost) Now() time.Time     { return h.now }

func (h *fakeHost) AfterFunc(d time.Duration, fn func()) TimerID {
	h.nextTimer++
	h.timers = append(h.timers, timerEntry{id: h.nextTimer, due: h.now.Add(d), fn: fn})
	return h.nextTimer
}

func (h *fakeHost) CancelTimer(id TimerID) {
	h.timers = slices.DeleteFunc(h.timers, func(t timerEntry) bool { return t.id == id })
}

func (h *fakeHost) RequestFrame(fn func(dt float64)) FrameID {
	h.nextFrame++
	h.frames = append(h.frames, frameRequest{id: h.nextFrame, fn: fn})
	return h.nextFrame
}

func (h *fakeHost) CancelFrame(id FrameID) {
	before := len(h.frames)
	h.frames = slices.DeleteFunc(h.frames, func(f frameRequest) bool { return f.id == id })
	h.cancelled += before - len(h.frames)
}

func (h *fakeHost) OnPointerMove(fn func(x, y float64)) CallbackHandle {
	return h.handlers.onPointerMove(fn)
}

func (h *fakeHost) OnResize(fn func(Viewport)) CallbackHandle {
	return h.handlers.onResize(fn)
}

// runFrame runs the frame callbacks pending at call time and returns how
// many ran.
func (h *fakeHost) runFrame(dt float64) int {
	batch := h.frames
	h.frames = nil
	for _, f := range batch {
		f.fn(dt)
	}
	return len(batch)
}

// advance moves the clock forward by d, firing timers in deadline order as
// their deadlines pass.
func (h *fakeHost) advance(d time.Duration) {
	end := h.now.Add(d)
	for {
		next := -1
		for i, t := range h.timers {
			if !t.due.After(end) && (next < 0 || t.due.Before(h.timers[next].due)) {
				next = i
			}
		}
		if next < 0 {
			break
		}
		t := h.timers[next]
		h.timers = slices.Delete(h.timers, next, next+1)
		if t.due.After(h.now) {
			h.now = t.due
		}
		t.fn()
	}
	h.now = end
}

func (h *fakeHost) move(x, y float64) {
	h.handlers.emitPointerMove(x, y)
}

func (h *fakeHost) resize(vp Viewport) {
	h.vp = vp
	h.handlers.emitResize(vp)
}

func (h *fakeHost) listeners() int {
	return len(h.handlers.pointerMove) + len(h.handlers.resize)
}

// testConfig returns a deterministic config with no fade and a captured log.
func testConfig(log *bytes.Buffer) Config {
	cfg := DefaultConfig()
	cfg.Rand = NewSeededRand(7)
	cfg.FadeIn = 0
	cfg.Logger = log
	return cfg
}

// scriptedSource replays fixed values, cycling when exhausted.
type scriptedSource struct {
	vals []float64
	i    int
}

func (s *scriptedSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func failingSurface(w, h int) (*Surface, error) {
	return nil, ErrSurfaceUnavailable
}
