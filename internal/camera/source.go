package camera

import (
	"context"
	"time"
)

// Frame is one captured camera frame in packed RGB (3 bytes per pixel).
type Frame struct {
	Width     int
	Height    int
	Data      []byte
	Timestamp time.Time
}

// Source is one bound camera. A source is created for a role with a
// negotiated resolution and owned either for the duration of one grab
// (per-capture lifecycle) or for the life of the session (persistent
// preview, where Grab reads from the already-live feed).
type Source interface {
	// ID returns the device identifier (e.g. "video0").
	ID() string
	// Role returns the fixed capture slot this source fills.
	Role() Role
	// Resolution returns the negotiated capture resolution.
	Resolution() (width, height int)
	// Grab returns one frame. The wait for a frame is bounded by the
	// context; per-capture sources open and close the device inside the
	// call.
	Grab(ctx context.Context) (*Frame, error)
	// Close releases the device. Idempotent.
	Close() error
}
