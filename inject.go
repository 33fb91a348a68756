package starfield

// InjectPointerMove queues a synthetic pointer move in viewport pixels. One
// queued move is consumed per Update, in place of the real cursor.
func (l *Loop) InjectPointerMove(x, y float64) {
	l.injectQueue = append(l.injectQueue, Vec2{x, y})
}

// InjectSweep queues a straight pointer sweep from (fromX, fromY) to
// (toX, toY), linearly interpolated over the given number of frames.
// Minimum frames is 2 (start and end).
func (l *Loop) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		l.InjectPointerMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// processInjectedInput pops one queued move and dispatches it.
// Returns true if an event was consumed (real cursor input should be skipped).
func (l *Loop) processInjectedInput() bool {
	if len(l.injectQueue) == 0 {
		return false
	}
	evt := l.injectQueue[0]
	copy(l.injectQueue, l.injectQueue[1:])
	l.injectQueue = l.injectQueue[:len(l.injectQueue)-1]

	l.handlers.emitPointerMove(evt.X, evt.Y)
	return true
}
