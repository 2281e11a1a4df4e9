// Package services holds the error taxonomy and context annotation helpers
// shared by the capture engine's subsystems.
package services
