package starfield

import (
	"io"
	"time"
)

// debugStats holds per-frame timing and geometry counts.
// Only populated when Config.Debug is true.
type debugStats struct {
	linkTime        time.Duration
	drawTime        time.Duration
	particleCount   int
	connectionCount int
}

// debugLog prints timing and geometry stats to w.
func debugLog(w io.Writer, stats debugStats) {
	logf(w, "link: %v | draw: %v | total: %v",
		stats.linkTime, stats.drawTime, stats.linkTime+stats.drawTime)
	logf(w, "particles: %d | connections: %d",
		stats.particleCount, stats.connectionCount)
}
