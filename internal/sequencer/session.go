package sequencer

import (
	"fmt"
	"math/rand"
	"time"

	"gazecap/internal/services"
	"gazecap/internal/settings"
	"gazecap/internal/stimulus"
)

// Mode selects how a session picks its stimulus points.
type Mode string

const (
	// ModeSingle captures one random point.
	ModeSingle Mode = "single"
	// ModeRepeatedRandom captures the configured repeat count of random
	// points with a delay between passes.
	ModeRepeatedRandom Mode = "repeated_random"
	// ModeCalibrationGrid walks all sixteen grid points in generator order.
	ModeCalibrationGrid Mode = "calibration_grid"
)

// ParseMode validates a mode string from the CLI or IPC surface.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeSingle, ModeRepeatedRandom, ModeCalibrationGrid:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown session mode %q", raw)
}

// Grid sessions use a fixed spacing between points rather than the
// configured inter-point delay.
const gridPointDelay = time.Second

// Session is one planned capture run. Points are fully materialized up front
// so the plan is fixed when the session starts.
type Session struct {
	Mode            Mode
	RepeatCount     int
	InterPointDelay time.Duration
	Points          []stimulus.Point
}

// NewSession plans a session for a surface of the given dimensions. Settings
// are taken as a snapshot; changes during the run do not apply. Zero surface
// dimensions are a fatal precondition.
func NewSession(mode Mode, width, height int, snap settings.Snapshot, rng *rand.Rand) (*Session, error) {
	if width <= 0 || height <= 0 {
		return nil, services.Wrap(services.ErrPrecondition, "sequencer", "plan",
			fmt.Sprintf("surface dimensions %dx%d", width, height), nil)
	}

	session := &Session{
		Mode:            mode,
		RepeatCount:     snap.RepeatCount,
		InterPointDelay: snap.InterPointDelay,
	}

	switch mode {
	case ModeSingle:
		session.RepeatCount = 1
		session.Points = []stimulus.Point{stimulus.RandomPoint(width, height, rng)}
	case ModeRepeatedRandom:
		if session.RepeatCount < 1 {
			session.RepeatCount = 1
		}
		for i := 0; i < session.RepeatCount; i++ {
			session.Points = append(session.Points, stimulus.RandomPoint(width, height, rng))
		}
	case ModeCalibrationGrid:
		session.Points = stimulus.Grid(width, height)
		session.RepeatCount = len(session.Points)
		session.InterPointDelay = gridPointDelay
		if len(session.Points) == 0 {
			return nil, services.Wrap(services.ErrPrecondition, "sequencer", "plan",
				"calibration grid yielded no points", nil)
		}
	default:
		return nil, services.Wrap(services.ErrPrecondition, "sequencer", "plan",
			fmt.Sprintf("unknown mode %q", mode), nil)
	}

	return session, nil
}
