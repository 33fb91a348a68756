// Package starfield renders an ambient particle field for [Ebitengine]: a
// rotating cloud of points joined by lines wherever two points are closer
// than a threshold, with pointer-driven parallax and a two-marker cursor
// trail (an immediate dot and a delayed ring).
//
// # Quick start
//
// [Loop] is the host: it opens the window, polls the cursor, tracks resizes
// and runs frame callbacks. [Lifecycle] mounts the field into the loop's root
// node and tears it down again:
//
//	loop := starfield.NewLoop(starfield.RunConfig{
//		Title: "Starfield", Width: 1280, Height: 720, HideCursor: true,
//	})
//	field := starfield.NewLifecycle(loop, starfield.DefaultConfig())
//	if err := field.Start(loop.Root()); err != nil {
//		log.Print(err) // the window still runs without its background
//	}
//	defer field.Stop()
//	_ = loop.Run()
//
// # Building blocks
//
// The pieces are usable on their own:
//
//   - [Generate] scatters particles uniformly in a cube.
//   - [Link] and the [Linker] implementations ([BruteForceLinker],
//     [GridLinker]) derive connections between nearby particles.
//   - [MotionConfig.Advance] steps the shared [RotationState]: constant drift
//     about Y plus exponential easing toward a pointer target.
//   - [InputTracker] turns pointer samples into offsets from the viewport
//     center; [CursorTrail] places the dot and ring markers.
//   - [Scene] owns the surface, [Camera] and geometry and draws a frame.
//
// Everything runs on one goroutine. [Host] implementations must deliver
// pointer, resize, frame and timer callbacks sequentially.
//
// [Ebitengine]: https://ebitengine.org
package starfield
