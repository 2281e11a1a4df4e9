package daemon

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"gazecap/internal/camera"
	"gazecap/internal/capture"
	"gazecap/internal/config"
	"gazecap/internal/logging"
	"gazecap/internal/notifications"
	"gazecap/internal/persist"
	"gazecap/internal/sequencer"
	"gazecap/internal/services"
	"gazecap/internal/settings"
	"gazecap/internal/surface"
)

// SourceBinder opens the camera sources for one session. Binding failures
// degrade per source; the returned slice may be empty.
type SourceBinder func(ctx context.Context) []camera.Source

// EngineStatus is a snapshot of the engine's session state.
type EngineStatus struct {
	Active      bool
	SessionID   string
	Mode        string
	State       sequencer.State
	PointIndex  int
	TotalPoints int
	Remaining   int
	Result      *sequencer.Result
}

// Engine owns session execution: exactly one session runs at a time, a
// second start request is rejected as busy and never interleaved.
type Engine struct {
	cfg      *config.Config
	storage  persist.Storage
	provider *settings.Provider
	notifier notifications.Service
	host     surface.Host
	binder   SourceBinder
	logger   *slog.Logger

	mu         sync.Mutex
	active     bool
	cancel     context.CancelFunc
	sessionID  string
	mode       sequencer.Mode
	lastStatus sequencer.Status
	lastResult *sequencer.Result
	started    time.Time
	wg         sync.WaitGroup
}

// NewEngine wires an engine. host and binder are injectable for tests;
// notifier may be nil.
func NewEngine(cfg *config.Config, storage persist.Storage, provider *settings.Provider, notifier notifications.Service, host surface.Host, binder SourceBinder, logger *slog.Logger) *Engine {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Engine{
		cfg:      cfg,
		storage:  storage,
		provider: provider,
		notifier: notifier,
		host:     host,
		binder:   binder,
		logger:   logging.NewComponentLogger(logger, "engine"),
	}
}

// StartSession plans and launches a session in the given mode. Returns the
// session id, or a busy error while another session is running.
func (e *Engine) StartSession(ctx context.Context, mode sequencer.Mode) (string, error) {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return "", services.Wrap(services.ErrBusy, "engine", "start session", "a session is already running", nil)
	}

	// Points are planned against the viewport the session will present on,
	// not the host's full size: presentation mode resizes the surface to the
	// viewport, and the two can differ.
	manager := surface.NewManager(e.host, nil, e.logger)
	width, height := e.host.ViewportSize()

	snap := e.provider.Snapshot(ctx)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session, err := sequencer.NewSession(mode, width, height, snap, rng)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}

	sessionID := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.active = true
	e.cancel = cancel
	e.sessionID = sessionID
	e.mode = mode
	e.lastStatus = sequencer.Status{State: sequencer.StatePreparing, TotalPoints: len(session.Points)}
	e.lastResult = nil
	e.started = time.Now()
	e.wg.Add(1)
	e.mu.Unlock()

	go e.run(runCtx, sessionID, session, manager)
	return sessionID, nil
}

func (e *Engine) run(ctx context.Context, sessionID string, session *sequencer.Session, manager *surface.Manager) {
	defer e.wg.Done()

	logger := e.logger.With(logging.String(logging.FieldSessionID, sessionID))
	logger.Info("session starting",
		logging.String("mode", string(session.Mode)),
		logging.Int("points", len(session.Points)),
	)
	_ = e.notifier.NotifySessionStarted(ctx, string(session.Mode), len(session.Points))

	var sources []camera.Source
	if e.binder != nil {
		sources = e.binder(ctx)
	}
	defer func() {
		for _, src := range sources {
			_ = src.Close()
		}
	}()

	runner := sequencer.NewRunner(sequencer.Options{
		Surfaces:    manager,
		Capturer:    e.newCapturer(),
		Coordinator: persist.NewCoordinator(e.storage, logger),
		Sources:     sources,
		Listener:    e.recordStatus,

		CountdownTicks: e.cfg.Capture.CountdownTicks,
		CountdownTick:  time.Duration(e.cfg.Capture.CountdownTickMs) * time.Millisecond,
		CaptureFlash:   time.Duration(e.cfg.Capture.CaptureFlashMs) * time.Millisecond,
		RedrawInterval: time.Duration(e.cfg.Capture.RedrawIntervalMs) * time.Millisecond,
		StimulusRadius: e.cfg.Capture.StimulusRadius,
		Logger:         logger,
	})

	result := runner.Run(ctx, session)

	e.mu.Lock()
	e.lastResult = &result
	e.active = false
	e.cancel = nil
	duration := time.Since(e.started)
	e.mu.Unlock()

	switch result.State {
	case sequencer.StateCancelled:
		_ = e.notifier.NotifySessionCancelled(context.Background(), string(session.Mode))
	case sequencer.StateFailed:
		_ = e.notifier.NotifySessionFailed(context.Background(), string(session.Mode),
			result.SuccessCount, result.TotalCount, result.Failures)
	default:
		_ = e.notifier.NotifySessionCompleted(context.Background(), string(session.Mode),
			result.SuccessCount, result.TotalCount, duration)
	}
}

func (e *Engine) newCapturer() *capture.Capturer {
	return capture.NewCapturer(capture.Options{
		ScreenSource:  e.cfg.Capture.ScreenSource,
		DisplayIndex:  e.cfg.Capture.DisplayIndex,
		PreviewWidth:  e.cfg.Cameras.PreviewWidth,
		WarmupTimeout: time.Duration(e.cfg.Capture.CameraWarmupTimeoutMs) * time.Millisecond,
		Logger:        e.logger,
	})
}

func (e *Engine) recordStatus(status sequencer.Status) {
	e.mu.Lock()
	e.lastStatus = status
	e.mu.Unlock()
}

// Cancel requests cancellation of the running session. Reports whether a
// session was active.
func (e *Engine) Cancel() bool {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// Wait blocks until the current session goroutine exits. Used on shutdown.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Status returns the engine's current session snapshot.
func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EngineStatus{
		Active:      e.active,
		SessionID:   e.sessionID,
		Mode:        string(e.mode),
		State:       e.lastStatus.State,
		PointIndex:  e.lastStatus.PointIndex,
		TotalPoints: e.lastStatus.TotalPoints,
		Remaining:   e.lastStatus.Remaining,
		Result:      e.lastResult,
	}
}
