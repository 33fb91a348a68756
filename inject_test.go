package starfield

import (
	"testing"
	"time"
)

func TestInjectPointerMove(t *testing.T) {
	tl := newTestLoop(800, 600)
	tl.InjectPointerMove(100, 200)
	if len(tl.injectQueue) != 1 || tl.injectQueue[0] != (Vec2{100, 200}) {
		t.Fatalf("queue = %v, want [(100, 200)]", tl.injectQueue)
	}
}

func TestInjectSweep(t *testing.T) {
	tl := newTestLoop(800, 600)
	tl.InjectSweep(0, 0, 100, 50, 5)

	if len(tl.injectQueue) != 5 {
		t.Fatalf("queue length = %d, want 5", len(tl.injectQueue))
	}
	want := []Vec2{{0, 0}, {25, 12.5}, {50, 25}, {75, 37.5}, {100, 50}}
	for i, w := range want {
		if got := tl.injectQueue[i]; !approxEqual(got.X, w.X, epsilon) || !approxEqual(got.Y, w.Y, epsilon) {
			t.Errorf("queue[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestInjectSweepMinFrames(t *testing.T) {
	tl := newTestLoop(800, 600)
	tl.InjectSweep(0, 0, 100, 100, 1)
	if len(tl.injectQueue) != 2 {
		t.Fatalf("queue length = %d, want 2 (minimum)", len(tl.injectQueue))
	}
	if tl.injectQueue[1] != (Vec2{100, 100}) {
		t.Errorf("last = %v, want (100, 100)", tl.injectQueue[1])
	}
}

func TestProcessInjectedInputOnePerTick(t *testing.T) {
	tl := newTestLoop(800, 600)
	var got []Vec2
	tl.OnPointerMove(func(x, y float64) { got = append(got, Vec2{x, y}) })

	tl.InjectPointerMove(1, 1)
	tl.InjectPointerMove(2, 2)

	if !tl.processInjectedInput() {
		t.Fatal("first call should consume an event")
	}
	if len(got) != 1 || got[0] != (Vec2{1, 1}) {
		t.Fatalf("dispatched %v, want [(1, 1)]", got)
	}
	tl.processInjectedInput()
	if tl.processInjectedInput() {
		t.Error("empty queue should report false")
	}
	if len(got) != 2 || got[1] != (Vec2{2, 2}) {
		t.Errorf("dispatched %v, want [(1, 1) (2, 2)]", got)
	}
}

func TestInjectedSweepDrivesTrail(t *testing.T) {
	tl := newTestLoop(800, 600)
	trail := NewCursorTrail(tl.Loop, 50*time.Millisecond, 12, nil, nil)
	tl.OnPointerMove(trail.Move)

	tl.InjectSweep(100, 100, 400, 100, 4)
	for range 4 {
		tl.tick(10 * time.Millisecond)
	}
	if trail.Dot() != (Vec2{400, 100}) {
		t.Fatalf("dot = %v, want (400, 100)", trail.Dot())
	}
	if trail.Ring() != (Vec2{}) {
		t.Fatalf("ring = %v before the delay, want unchanged", trail.Ring())
	}

	for range 10 {
		tl.tick(10 * time.Millisecond)
	}
	if trail.Ring() != (Vec2{388, 88}) {
		t.Errorf("ring = %v, want (388, 88)", trail.Ring())
	}
}
