// Package daemon coordinates the long-running gazecap process and system
// integration points.
//
// It wires configuration, the capture store, the session engine, and the
// camera hotplug monitor into a single lifecycle with flock-based locking to
// prevent multiple instances. The engine enforces one capture session at a
// time; a second start request is rejected as busy. The daemon also owns
// notifications triggered by session and camera events.
//
// Keep orchestration logic here: the capture cycle itself lives in the
// sequencer package while the daemon focuses on startup, shutdown, and high
// level coordination.
package daemon
