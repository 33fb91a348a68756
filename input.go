package starfield

import (
	"math"
	"slices"
)

// --- Pointer tracking ---

// PointerState holds the most recent pointer sample.
type PointerState struct {
	// Raw is the pointer position in viewport pixels.
	Raw Vec2
	// Offset is Raw relative to the viewport center.
	Offset Vec2
	// Seen reports whether any pointer sample has arrived.
	Seen bool
}

// InputTracker records pointer moves and derives the offset from the
// viewport center that drives parallax.
type InputTracker struct {
	state    PointerState
	viewport Viewport
}

// NewInputTracker creates a tracker for the given viewport.
func NewInputTracker(vp Viewport) *InputTracker {
	return &InputTracker{viewport: vp.clamped()}
}

// Move records a pointer sample. Out-of-viewport coordinates are accepted
// as-is; NaN or infinite coordinates are ignored.
func (t *InputTracker) Move(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	t.state.Raw = Vec2{x, y}
	t.state.Seen = true
	t.recompute()
}

// SetViewport updates the center used for offsets.
func (t *InputTracker) SetViewport(vp Viewport) {
	t.viewport = vp.clamped()
	if t.state.Seen {
		t.recompute()
	}
}

// State returns the current pointer state.
func (t *InputTracker) State() PointerState {
	return t.state
}

func (t *InputTracker) recompute() {
	c := t.viewport.Center()
	t.state.Offset = Vec2{t.state.Raw.X - c.X, t.state.Raw.Y - c.Y}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// --- Handler registry ---

// EventType identifies a kind of host event.
type EventType uint8

const (
	EventPointerMove EventType = iota // pointer moved within the window
	EventResize                       // viewport size or scale factor changed
)

type pointerHandler struct {
	id uint32
	fn func(x, y float64)
}

type resizeHandler struct {
	id uint32
	fn func(Viewport)
}

type handlerRegistry struct {
	pointerMove []pointerHandler
	resize      []resizeHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered listener.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Safe to call more
// than once and on the zero handle.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.pointerMove = removeHandler(h.reg.pointerMove, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventResize:
		h.reg.resize = removeHandler(h.reg.resize, h.id, func(r resizeHandler) uint32 { return r.id })
	}
}

// removeHandler deletes the entry with the given id, clearing the vacated
// slot so the backing array does not retain the closure.
func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) onPointerMove(fn func(x, y float64)) CallbackHandle {
	r.nextID++
	r.pointerMove = append(r.pointerMove, pointerHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: EventPointerMove}
}

func (r *handlerRegistry) onResize(fn func(Viewport)) CallbackHandle {
	r.nextID++
	r.resize = append(r.resize, resizeHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: EventResize}
}

// emitPointerMove calls every pointer handler. Handlers removed during
// dispatch do not fire.
func (r *handlerRegistry) emitPointerMove(x, y float64) {
	for _, h := range slices.Clone(r.pointerMove) {
		if r.hasPointer(h.id) {
			h.fn(x, y)
		}
	}
}

func (r *handlerRegistry) emitResize(vp Viewport) {
	for _, h := range slices.Clone(r.resize) {
		if r.hasResize(h.id) {
			h.fn(vp)
		}
	}
}

func (r *handlerRegistry) hasPointer(id uint32) bool {
	for _, h := range r.pointerMove {
		if h.id == id {
			return true
		}
	}
	return false
}

func (r *handlerRegistry) hasResize(id uint32) bool {
	for _, h := range r.resize {
		if h.id == id {
			return true
		}
	}
	return false
}
