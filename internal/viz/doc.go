// Package viz provides terminal-based visualization for pack thermal runs.
//
// Three surfaces:
//
//   - [Plot]: per-zone temperature line charts
//   - [Heatmap]: braille-cell time-by-zone intensity strips
//   - [Model]: live Bubble Tea view stepping a pack interactively
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial temperatures
//	↑/↓   - Adjust discharge current
//	Q     - Quit
package viz
