package surface

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"gazecap/internal/logging"
	"gazecap/internal/services"
	"gazecap/internal/stimulus"
)

// Host abstracts the environment the surface lives in: it reports the
// embedded (normal layout) size and the full viewport size, and exposes the
// chrome suppress/restore hooks the engine calls around presentation mode.
type Host interface {
	ViewportSize() (width, height int)
	HostSize() (width, height int)
	SuppressChrome()
	RestoreChrome()
}

// FrameSink receives rendered frames. A sink is optional; headless tests and
// display-grab configurations run without one.
type FrameSink interface {
	Push(img *image.RGBA)
}

// Surface is the drawing target for stimulus presentation. Its pixel
// dimensions equal the viewport while in presentation mode and the host
// container size otherwise.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA
}

// Size returns the surface's current pixel dimensions.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Snapshot returns a copy of the current pixel contents, or nil when the
// surface has no backing image yet.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil
	}
	clone := image.NewRGBA(s.img.Bounds())
	copy(clone.Pix, s.img.Pix)
	return clone
}

func (s *Surface) resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 || height <= 0 {
		s.img = nil
		return
	}
	if s.img != nil {
		b := s.img.Bounds()
		if b.Dx() == width && b.Dy() == height {
			return
		}
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// placement records where the surface lived before presentation mode so exit
// can restore it exactly.
type placement struct {
	width  int
	height int
}

// frame is the last drawn content, re-asserted by the redraw ticker.
type frame struct {
	point     stimulus.Point
	radius    int
	remaining int
	flash     bool
	blank     bool
}

// Manager owns the presentation surface's lifecycle: acquisition, entering
// and leaving presentation mode with placement restoration, stimulus drawing,
// and the bounded redraw loop that keeps the stimulus visible.
type Manager struct {
	host   Host
	sink   FrameSink
	logger *slog.Logger

	mu         sync.Mutex
	surface    *Surface
	saved      *placement
	presenting bool
	current    frame
}

// NewManager constructs a surface manager bound to the given host. sink may
// be nil.
func NewManager(host Host, sink FrameSink, logger *slog.Logger) *Manager {
	return &Manager{
		host:   host,
		sink:   sink,
		logger: logging.NewComponentLogger(logger, "surface"),
	}
}

// Acquire returns the managed surface, creating it at host size on first
// use. Idempotent: every acquisition during one sequence yields the same
// surface.
func (m *Manager) Acquire() *Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.surface == nil {
		m.surface = &Surface{}
		w, h := m.host.HostSize()
		m.surface.resize(w, h)
	}
	return m.surface
}

// EnterPresentationMode records the surface's current placement, resizes it
// to the full viewport, clears it to the neutral background, and suppresses
// host chrome. Calling it while already presenting is a no-op.
func (m *Manager) EnterPresentationMode(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.presenting {
		return nil
	}

	surf := m.surface
	if surf == nil {
		surf = &Surface{}
		m.surface = surf
	}

	hw, hh := m.host.HostSize()
	m.saved = &placement{width: hw, height: hh}

	vw, vh := m.host.ViewportSize()
	if vw <= 0 || vh <= 0 {
		m.saved = nil
		return services.Wrap(services.ErrPrecondition, "surface", "enter presentation", "viewport has zero dimensions", nil)
	}

	surf.resize(vw, vh)
	m.current = frame{blank: true}
	m.renderLocked()
	m.host.SuppressChrome()
	m.presenting = true

	m.logger.Info("entered presentation mode",
		logging.String(logging.FieldEventType, "presentation_enter"),
		logging.Int("viewport_width", vw),
		logging.Int("viewport_height", vh),
	)
	return nil
}

// ExitPresentationMode restores the placement recorded on enter, clears the
// surface, and restores host chrome. Idempotent and safe to call when
// presentation mode was never entered.
func (m *Manager) ExitPresentationMode(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.presenting {
		return
	}
	m.presenting = false

	if m.surface != nil && m.saved != nil {
		m.surface.resize(m.saved.width, m.saved.height)
	}
	m.saved = nil
	m.current = frame{blank: true}
	m.renderLocked()
	m.host.RestoreChrome()

	m.logger.Info("exited presentation mode",
		logging.String(logging.FieldEventType, "presentation_exit"),
	)
}

// Viewport reports the host's current viewport dimensions.
func (m *Manager) Viewport() (int, int) {
	return m.host.ViewportSize()
}

// Presenting reports whether the surface is currently in presentation mode.
func (m *Manager) Presenting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presenting
}

// DrawStimulus clears the surface and paints the fixation dot with its glow
// ring at the given point.
func (m *Manager) DrawStimulus(point stimulus.Point, radius int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = frame{point: point, radius: radius}
	m.renderLocked()
}

// DrawCountdown paints the stimulus plus remaining countdown pips.
func (m *Manager) DrawCountdown(point stimulus.Point, radius, remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = frame{point: point, radius: radius, remaining: remaining}
	m.renderLocked()
}

// DrawCaptureFlash paints the brief captured indicator.
func (m *Manager) DrawCaptureFlash(point stimulus.Point, radius int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = frame{point: point, radius: radius, flash: true}
	m.renderLocked()
}

// Clear blanks the surface to the neutral background.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = frame{blank: true}
	m.renderLocked()
}

// HandleResize is invoked when the host viewport changes. While presenting
// the surface is re-sized to the new viewport and the current stimulus is
// redrawn so a capture in progress never loses its visible target.
func (m *Manager) HandleResize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.presenting {
		if m.surface != nil {
			w, h := m.host.HostSize()
			m.surface.resize(w, h)
		}
		return
	}

	vw, vh := m.host.ViewportSize()
	m.surface.resize(vw, vh)
	m.renderLocked()
	m.logger.Debug("reapplied viewport size after resize",
		logging.Int("viewport_width", vw),
		logging.Int("viewport_height", vh),
	)
}

// RedrawLoop re-asserts the current frame at the given interval until the
// context is cancelled. The redraw is idempotent; the loop exists because the
// host can interleave unrelated rendering between suspension points, so a
// single draw call cannot be assumed to persist.
func (m *Manager) RedrawLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			m.renderLocked()
			m.mu.Unlock()
		}
	}
}

// renderLocked repaints the current frame. Callers hold m.mu.
func (m *Manager) renderLocked() {
	if m.surface == nil {
		return
	}
	m.surface.mu.Lock()
	img := m.surface.img
	if img != nil {
		paint(img, m.current)
	}
	m.surface.mu.Unlock()

	if m.sink != nil && img != nil {
		m.sink.Push(img)
	}
}
