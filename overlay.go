package starfield

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsRefresh is how often the overlay text is redrawn, in seconds.
const statsRefresh = 0.5

// newStatsOverlay creates a node showing FPS, TPS and the scene's connection
// count, refreshed every half second.
func newStatsOverlay(scene *Scene) *Node {
	// 140x48 fits three DebugPrint lines.
	img := ebiten.NewImage(140, 48)

	node := NewSprite("stats_overlay", img)
	node.X, node.Y = 8, 8

	// Draw immediately rather than waiting for the first refresh.
	elapsed := statsRefresh

	node.OnUpdate = func(dt float64) {
		elapsed += dt
		if elapsed < statsRefresh {
			return
		}
		elapsed = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), len(scene.Connections())))
	}
	return node
}

func statsText(fps, tps float64, conns int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nLinks: %d", fps, tps, conns)
}
