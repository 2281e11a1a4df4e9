// Package surface manages the full-screen stimulus presentation surface: its
// lifecycle (acquire, enter/exit presentation mode with placement
// restoration), stimulus drawing, and the bounded redraw loop that keeps the
// dot visible between suspension points.
package surface
