// Package stimulus generates the target positions a capture session presents:
// the fixed two-ring calibration grid and uniformly random single points.
package stimulus
