// Package viz draws the boat course in the terminal.
//
//   - [Canvas]: Braille dot canvas with a world [Viewport] and colored
//     glyph overlays
//   - [Model]: Bubble Tea program that ticks a simulator at 60 Hz and shows
//     the hull, trail, path, gate buoys and current field
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	M      - Toggle manual control
//	Arrows - Speed and turn rate while manual
//	C      - Toggle current arrows
//	T      - Cycle color themes
//	?      - Show help
package viz
