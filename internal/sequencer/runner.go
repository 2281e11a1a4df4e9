package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gazecap/internal/camera"
	"gazecap/internal/capture"
	"gazecap/internal/logging"
	"gazecap/internal/persist"
	"gazecap/internal/surface"
)

// Options wires a runner to its collaborators and timing parameters.
type Options struct {
	Surfaces    *surface.Manager
	Capturer    *capture.Capturer
	Coordinator *persist.Coordinator
	Sources     []camera.Source
	Listener    Listener

	CountdownTicks int
	CountdownTick  time.Duration
	CaptureFlash   time.Duration
	RedrawInterval time.Duration
	StimulusRadius int
	Logger         *slog.Logger
}

// Runner drives one session through the capture cycle. It owns no goroutines
// beyond the redraw loop and never lets an error escape Run: failures and
// cancellation are reported through the status stream and the result summary.
type Runner struct {
	surfaces    *surface.Manager
	capturer    *capture.Capturer
	coordinator *persist.Coordinator
	sources     []camera.Source
	listener    Listener

	countdownTicks int
	countdownTick  time.Duration
	captureFlash   time.Duration
	redrawInterval time.Duration
	stimulusRadius int
	logger         *slog.Logger
}

// NewRunner applies defaults and returns a runner.
func NewRunner(opts Options) *Runner {
	if opts.CountdownTicks <= 0 {
		opts.CountdownTicks = 3
	}
	if opts.CountdownTick <= 0 {
		opts.CountdownTick = time.Second
	}
	if opts.CaptureFlash <= 0 {
		opts.CaptureFlash = 300 * time.Millisecond
	}
	if opts.RedrawInterval <= 0 {
		opts.RedrawInterval = 50 * time.Millisecond
	}
	if opts.StimulusRadius <= 0 {
		opts.StimulusRadius = 12
	}
	return &Runner{
		surfaces:       opts.Surfaces,
		capturer:       opts.Capturer,
		coordinator:    opts.Coordinator,
		sources:        opts.Sources,
		listener:       opts.Listener,
		countdownTicks: opts.CountdownTicks,
		countdownTick:  opts.CountdownTick,
		captureFlash:   opts.CaptureFlash,
		redrawInterval: opts.RedrawInterval,
		stimulusRadius: opts.StimulusRadius,
		logger:         logging.NewComponentLogger(opts.Logger, "sequencer"),
	}
}

// Run executes the session to a terminal state. The cancel signal (context)
// is honored at every transition boundary; cancellation and failure both
// route through the same cleanup before the terminal status is emitted.
func (r *Runner) Run(ctx context.Context, session *Session) Result {
	result := Result{State: StateFailed}
	if session == nil || len(session.Points) == 0 {
		r.logger.Error("session has no points")
		r.emit(Status{State: StateFailed, Message: "no stimulus points planned"})
		return result
	}
	total := len(session.Points)
	result.TotalCount = total

	r.emit(Status{State: StatePreparing, TotalPoints: total, Message: string(session.Mode)})
	surf := r.surfaces.Acquire()
	if err := r.surfaces.EnterPresentationMode(ctx); err != nil {
		r.logger.Error("presentation mode unavailable", logging.Error(err))
		return r.finish(result, StateFailed, total, err.Error())
	}

	for i, point := range session.Points {
		if ctx.Err() != nil {
			return r.finish(result, StateCancelled, total, "")
		}

		r.surfaces.DrawStimulus(point, r.stimulusRadius)
		redrawCtx, stopRedraw := context.WithCancel(ctx)
		go r.surfaces.RedrawLoop(redrawCtx, r.redrawInterval)
		r.emit(Status{State: StatePresenting, PointIndex: i, TotalPoints: total, Message: point.Label})

		cancelled := false
		for remaining := r.countdownTicks; remaining >= 1; remaining-- {
			r.surfaces.DrawCountdown(point, r.stimulusRadius, remaining)
			r.emit(Status{State: StateCountingDown, PointIndex: i, TotalPoints: total, Remaining: remaining})
			if err := wait(ctx, r.countdownTick); err != nil {
				cancelled = true
				break
			}
		}
		if !cancelled {
			r.surfaces.DrawCaptureFlash(point, r.stimulusRadius)
			if err := wait(ctx, r.captureFlash); err != nil {
				cancelled = true
			}
		}
		// The redraw ticker must not outlive the countdown.
		stopRedraw()
		if cancelled {
			return r.finish(result, StateCancelled, total, "")
		}

		r.emit(Status{State: StateCapturing, PointIndex: i, TotalPoints: total})
		snap := r.capturer.CaptureAll(ctx, point, surf, r.sources)
		snap.ViewportWidth, snap.ViewportHeight = r.surfaces.Viewport()

		r.emit(Status{State: StatePersisting, PointIndex: i, TotalPoints: total})
		group := r.coordinator.BeginGroup(snap)
		if err := r.coordinator.Submit(ctx, group, snap); err != nil {
			r.logger.Warn("persistence failed for point",
				logging.Error(err),
				logging.Int(logging.FieldPointIndex, i),
				logging.String(logging.FieldGroupID, group.ID),
			)
			result.Failures = append(result.Failures, fmt.Sprintf("point %d: %v", i+1, err))
		} else {
			switch group.Status {
			case persist.StatusComplete:
				result.SuccessCount++
			case persist.StatusPartial:
				result.SuccessCount++
				result.Failures = append(result.Failures, fmt.Sprintf("point %d: partial capture", i+1))
			default:
				result.Failures = append(result.Failures, fmt.Sprintf("point %d: persistence %s", i+1, group.Status))
			}
		}

		if i < total-1 {
			r.emit(Status{State: StateAdvancing, PointIndex: i, TotalPoints: total})
			if err := wait(ctx, session.InterPointDelay); err != nil {
				return r.finish(result, StateCancelled, total, "")
			}
		}
	}

	message := fmt.Sprintf("%d/%d points captured", result.SuccessCount, total)
	return r.finish(result, StateCompleted, total, message)
}

// finish performs the symmetric cleanup every exit path shares, emits the
// terminal status, and seals the result.
func (r *Runner) finish(result Result, state State, total int, message string) Result {
	r.surfaces.ExitPresentationMode(context.Background())
	result.State = state
	r.emit(Status{State: state, TotalPoints: total, Message: message})
	r.logger.Info("session finished",
		logging.String(logging.FieldState, string(state)),
		logging.Int("success_count", result.SuccessCount),
		logging.Int("total_count", result.TotalCount),
	)
	return result
}

func (r *Runner) emit(status Status) {
	if r.listener != nil {
		r.listener(status)
	}
}

// wait sleeps for d or until the context is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
