package starfield

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TimerID identifies a pending deferred call.
type TimerID uint64

// Scheduler runs deferred calls on the host's event thread.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
}

// maxPendingRing bounds the queue of ring samples waiting for their delay.
// When pointer moves outpace the delay by more than this, the oldest sample
// is dropped.
const maxPendingRing = 64

// Marker sizes in logical pixels.
const (
	dotRadius   = 4
	ringRadius  = 11
	ringStroke  = 1.5
	ringExtent  = 24
	markerScale = 2 // marker images are rasterized at 2x for high-DPI screens
)

type ringSample struct {
	due time.Time
	pos Vec2
}

// CursorTrail positions the two cursor markers: a dot that follows the pointer
// immediately and a ring that follows it after a fixed delay. Pending ring
// samples are applied strictly in arrival order behind a single timer, so a
// burst of pointer moves can never make the ring jump backwards.
type CursorTrail struct {
	sched  Scheduler
	delay  time.Duration
	offset float64

	dot, ring         Vec2
	dotNode, ringNode *Node

	pending []ringSample
	timer   TimerID
	armed   bool
	stopped bool
}

// NewCursorTrail creates a trail. dotNode and ringNode may be nil when only
// the positions are needed.
func NewCursorTrail(sched Scheduler, delay time.Duration, offset float64, dotNode, ringNode *Node) *CursorTrail {
	return &CursorTrail{
		sched:    sched,
		delay:    delay,
		offset:   offset,
		dotNode:  dotNode,
		ringNode: ringNode,
	}
}

// Dot returns the immediate marker position.
func (c *CursorTrail) Dot() Vec2 {
	return c.dot
}

// Ring returns the delayed marker position.
func (c *CursorTrail) Ring() Vec2 {
	return c.ring
}

// Pending returns the number of ring samples still waiting for their delay.
func (c *CursorTrail) Pending() int {
	return len(c.pending)
}

// Move places the dot at (x, y) and queues the ring to follow after the delay.
func (c *CursorTrail) Move(x, y float64) {
	if c.stopped || !finite(x) || !finite(y) {
		return
	}
	c.dot = Vec2{x, y}
	if c.dotNode != nil {
		c.dotNode.SetPosition(x, y)
		c.dotNode.Visible = true
	}

	if len(c.pending) == maxPendingRing {
		copy(c.pending, c.pending[1:])
		c.pending = c.pending[:len(c.pending)-1]
	}
	c.pending = append(c.pending, ringSample{
		due: c.sched.Now().Add(c.delay),
		pos: Vec2{x - c.offset, y - c.offset},
	})
	if !c.armed {
		c.arm(c.delay)
	}
}

// Stop cancels the pending ring update and ignores further moves.
func (c *CursorTrail) Stop() {
	c.stopped = true
	if c.armed {
		c.sched.CancelTimer(c.timer)
		c.armed = false
	}
	c.pending = nil
}

func (c *CursorTrail) arm(d time.Duration) {
	c.timer = c.sched.AfterFunc(max(d, 0), c.fire)
	c.armed = true
}

// fire applies every sample whose delay has elapsed, oldest first, then
// re-arms for the next one.
func (c *CursorTrail) fire() {
	c.armed = false
	if c.stopped {
		return
	}
	now := c.sched.Now()
	n := 0
	for n < len(c.pending) && !c.pending[n].due.After(now) {
		c.ring = c.pending[n].pos
		n++
	}
	if n > 0 {
		c.pending = c.pending[:copy(c.pending, c.pending[n:])]
		if c.ringNode != nil {
			c.ringNode.SetPosition(c.ring.X, c.ring.Y)
			c.ringNode.Visible = true
		}
	}
	if len(c.pending) > 0 {
		c.arm(c.pending[0].due.Sub(now))
	}
}

// newDotMarker creates the filled dot sprite, pivoted on its center.
func newDotMarker(col Color) *Node {
	size := (dotRadius * 2) * markerScale
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, size, size), nil)
	vector.FillCircle(img, float32(size)/2, float32(size)/2, dotRadius*markerScale, col.toRGBA(), true)
	n := NewSprite("cursor_dot", img)
	n.ScaleX, n.ScaleY = 1.0/markerScale, 1.0/markerScale
	n.PivotX, n.PivotY = float64(size)/2, float64(size)/2
	n.Visible = false
	return n
}

// newRingMarker creates the ring sprite. Its origin is the top-left corner,
// which CursorTrail offsets to center it on the pointer.
func newRingMarker(col Color) *Node {
	size := ringExtent * markerScale
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, size, size), nil)
	vector.StrokeCircle(img, float32(size)/2, float32(size)/2, ringRadius*markerScale, ringStroke*markerScale, col.toRGBA(), true)
	n := NewSprite("cursor_ring", img)
	n.ScaleX, n.ScaleY = 1.0/markerScale, 1.0/markerScale
	n.Visible = false
	return n
}
