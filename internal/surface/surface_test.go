package surface

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"gazecap/internal/logging"
	"gazecap/internal/stimulus"
)

// fakeHost records chrome suppress/restore calls and serves configurable
// sizes.
type fakeHost struct {
	mu         sync.Mutex
	hostW      int
	hostH      int
	viewW      int
	viewH      int
	suppressed int
	restored   int
}

func newFakeHost() *fakeHost {
	return &fakeHost{hostW: 640, hostH: 360, viewW: 1920, viewH: 1080}
}

func (h *fakeHost) ViewportSize() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewW, h.viewH
}

func (h *fakeHost) HostSize() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hostW, h.hostH
}

func (h *fakeHost) SuppressChrome() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.suppressed++
}

func (h *fakeHost) RestoreChrome() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.restored++
}

func (h *fakeHost) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.suppressed, h.restored
}

type countingSink struct {
	mu     sync.Mutex
	pushes int
}

func (s *countingSink) Push(*image.RGBA) {
	s.mu.Lock()
	s.pushes++
	s.mu.Unlock()
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}

func TestAcquireIsIdempotent(t *testing.T) {
	m := NewManager(newFakeHost(), nil, logging.NewNop())
	a := m.Acquire()
	b := m.Acquire()
	if a != b {
		t.Fatal("expected the same surface across acquisitions")
	}
	w, h := a.Size()
	if w != 640 || h != 360 {
		t.Fatalf("expected host-sized surface, got %dx%d", w, h)
	}
}

func TestEnterExitPresentationRestoresPlacement(t *testing.T) {
	host := newFakeHost()
	m := NewManager(host, nil, logging.NewNop())
	surf := m.Acquire()

	if err := m.EnterPresentationMode(context.Background()); err != nil {
		t.Fatalf("EnterPresentationMode failed: %v", err)
	}
	w, h := surf.Size()
	if w != 1920 || h != 1080 {
		t.Fatalf("expected viewport-sized surface, got %dx%d", w, h)
	}
	if s, _ := host.counts(); s != 1 {
		t.Fatalf("expected chrome suppressed once, got %d", s)
	}

	m.ExitPresentationMode(context.Background())
	w, h = surf.Size()
	if w != 640 || h != 360 {
		t.Fatalf("expected restored host size, got %dx%d", w, h)
	}
	if _, r := host.counts(); r != 1 {
		t.Fatalf("expected chrome restored once, got %d", r)
	}
}

func TestExitWithoutEnterIsNoop(t *testing.T) {
	host := newFakeHost()
	m := NewManager(host, nil, logging.NewNop())
	m.ExitPresentationMode(context.Background())
	m.ExitPresentationMode(context.Background())
	if s, r := host.counts(); s != 0 || r != 0 {
		t.Fatalf("expected no chrome calls, got suppress=%d restore=%d", s, r)
	}
}

func TestEnterPresentationRejectsZeroViewport(t *testing.T) {
	host := newFakeHost()
	host.viewW = 0
	m := NewManager(host, nil, logging.NewNop())
	m.Acquire()
	if err := m.EnterPresentationMode(context.Background()); err == nil {
		t.Fatal("expected precondition error for zero viewport")
	}
}

func TestDrawStimulusPaintsDotAndGlow(t *testing.T) {
	host := newFakeHost()
	m := NewManager(host, nil, logging.NewNop())
	surf := m.Acquire()
	if err := m.EnterPresentationMode(context.Background()); err != nil {
		t.Fatalf("EnterPresentationMode failed: %v", err)
	}

	point := stimulus.Point{X: 300, Y: 200}
	m.DrawStimulus(point, 10)

	img := surf.Snapshot()
	if img == nil {
		t.Fatal("expected snapshot")
	}
	if got := img.RGBAAt(300, 200); got != stimulusColor {
		t.Fatalf("center pixel = %v, want stimulus color", got)
	}
	// Glow ring sits outside the dot radius.
	if got := img.RGBAAt(300+13, 200); got != glowColor {
		t.Fatalf("ring pixel = %v, want glow color", got)
	}
	// Far corner stays background.
	if got := img.RGBAAt(5, 5); got != backgroundColor {
		t.Fatalf("background pixel = %v, want background", got)
	}
}

func TestResizeWhilePresentingKeepsStimulus(t *testing.T) {
	host := newFakeHost()
	m := NewManager(host, nil, logging.NewNop())
	surf := m.Acquire()
	if err := m.EnterPresentationMode(context.Background()); err != nil {
		t.Fatalf("EnterPresentationMode failed: %v", err)
	}
	point := stimulus.Point{X: 100, Y: 100}
	m.DrawStimulus(point, 8)

	host.mu.Lock()
	host.viewW, host.viewH = 1280, 720
	host.mu.Unlock()
	m.HandleResize()

	w, h := surf.Size()
	if w != 1280 || h != 720 {
		t.Fatalf("expected resized viewport surface, got %dx%d", w, h)
	}
	img := surf.Snapshot()
	if got := img.RGBAAt(100, 100); got != stimulusColor {
		t.Fatalf("stimulus lost after resize: %v", got)
	}
}

func TestRedrawLoopPushesFramesUntilCancelled(t *testing.T) {
	host := newFakeHost()
	sink := &countingSink{}
	m := NewManager(host, sink, logging.NewNop())
	m.Acquire()
	if err := m.EnterPresentationMode(context.Background()); err != nil {
		t.Fatalf("EnterPresentationMode failed: %v", err)
	}
	m.DrawStimulus(stimulus.Point{X: 50, Y: 50}, 6)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RedrawLoop(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for sink.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("redraw loop produced no frames")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("redraw loop did not stop on cancel")
	}
}
