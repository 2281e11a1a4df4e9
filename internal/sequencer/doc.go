// Package sequencer drives capture sessions through their state machine.
//
// A session is planned up front (single random point, repeated random points,
// or the full calibration grid) and then run point by point: present the
// stimulus, count down, capture every source, persist the artifact group, and
// advance after the configured delay. Cancellation is honored at every
// transition boundary and always routes through the same cleanup as normal
// completion, so the surface is restored no matter where the run stopped.
package sequencer
