// Package viz renders thermodynamic cycles in the terminal.
//
// Diagrams are drawn on a Braille [Canvas], two dots wide and four high per
// cell, through a [Plot] that maps data coordinates and keeps a second layer
// for a frozen reference. [App] is the Bubble Tea explorer built on top.
//
// # Key Bindings
//
//	c     - Toggle Otto / Diesel
//	g     - Toggle ideal / Van der Waals gas
//	v     - Toggle P-V / T-S diagram
//	j/k   - Select slider
//	h/l   - Adjust slider (H/L for coarse steps)
//	f, x  - Freeze / clear reference
//	p     - Save reference to the data directory
//	s     - Efficiency sweep over compression ratio
package viz
