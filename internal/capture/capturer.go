package capture

import (
	"context"
	"log/slog"
	"time"

	"gazecap/internal/camera"
	"gazecap/internal/logging"
	"gazecap/internal/services"
	"gazecap/internal/stimulus"
	"gazecap/internal/surface"
)

// Image is one encoded capture artifact.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// CameraInfo records the binding a camera slot was captured with, kept even
// when the grab itself fails so the parameters record stays complete.
type CameraInfo struct {
	DeviceID string
	Role     camera.Role
	Width    int
	Height   int
}

// CameraSlot is one camera's contribution to a snapshot. Image and Preview
// are nil when the grab failed.
type CameraSlot struct {
	Info    CameraInfo
	Image   *Image
	Preview *Image
}

// Snapshot is the multi-source result for one stimulus point. Failed sources
// leave nil slots; a snapshot is never an error.
type Snapshot struct {
	Point         stimulus.Point
	Timestamp     time.Time
	Screen        *Image
	SurfaceWidth  int
	SurfaceHeight int
	// Viewport dims are filled in by the sequencer, which knows the host.
	ViewportWidth  int
	ViewportHeight int
	Cameras        []CameraSlot
}

// Options configures a Capturer.
type Options struct {
	// ScreenSource selects surface readback (default) or a real display
	// grab via the screenshot library.
	ScreenSource string
	DisplayIndex int
	// PreviewWidth bounds camera thumbnail width; height keeps aspect.
	PreviewWidth int
	// WarmupTimeout bounds the wait for a camera frame per grab.
	WarmupTimeout time.Duration
	Logger        *slog.Logger
}

// Capturer collects screen and camera artifacts for a stimulus point.
type Capturer struct {
	screenSource  string
	displayIndex  int
	previewWidth  int
	warmupTimeout time.Duration
	logger        *slog.Logger
}

const (
	defaultPreviewWidth  = 320
	defaultWarmupTimeout = time.Second
)

// NewCapturer applies defaults and returns a ready capturer.
func NewCapturer(opts Options) *Capturer {
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = defaultPreviewWidth
	}
	if opts.WarmupTimeout <= 0 {
		opts.WarmupTimeout = defaultWarmupTimeout
	}
	return &Capturer{
		screenSource:  opts.ScreenSource,
		displayIndex:  opts.DisplayIndex,
		previewWidth:  opts.PreviewWidth,
		warmupTimeout: opts.WarmupTimeout,
		logger:        logging.NewComponentLogger(opts.Logger, "capture"),
	}
}

// CaptureScreen encodes the surface pixels as PNG. Returns nil when the
// surface is missing; screen capture never panics.
func (c *Capturer) CaptureScreen(surf *surface.Surface) *Image {
	if c.screenSource == "display" {
		img, err := c.captureDisplay()
		if err != nil {
			c.logger.Warn("display capture failed",
				logging.Error(err),
				logging.Int("display_index", c.displayIndex),
			)
			return nil
		}
		return img
	}

	if surf == nil {
		return nil
	}
	pix := surf.Snapshot()
	if pix == nil {
		return nil
	}
	data, err := encodePNG(pix)
	if err != nil {
		c.logger.Warn("screen encode failed", logging.Error(err))
		return nil
	}
	bounds := pix.Bounds()
	return &Image{Data: data, MIME: "image/png", Width: bounds.Dx(), Height: bounds.Dy()}
}

// CaptureCamera grabs one frame, mirrors it horizontally so the saved image
// matches true orientation, and encodes it as JPEG plus a low-resolution
// preview thumbnail. The wait for a frame is bounded by the warmup timeout.
func (c *Capturer) CaptureCamera(ctx context.Context, src camera.Source) (*Image, *Image, error) {
	grabCtx, cancel := context.WithTimeout(ctx, c.warmupTimeout)
	defer cancel()

	frame, err := src.Grab(grabCtx)
	if err != nil {
		return nil, nil, err
	}

	pix, err := frameToMirroredRGBA(frame)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrResourceUnavailable, "capture", "decode", src.ID(), err)
	}

	full, err := encodeJPEG(pix)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrResourceUnavailable, "capture", "encode", src.ID(), err)
	}

	thumb := scaleToWidth(pix, c.previewWidth)
	preview, err := encodeJPEG(thumb)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrResourceUnavailable, "capture", "encode preview", src.ID(), err)
	}

	fullBounds := pix.Bounds()
	thumbBounds := thumb.Bounds()
	return &Image{Data: full, MIME: "image/jpeg", Width: fullBounds.Dx(), Height: fullBounds.Dy()},
		&Image{Data: preview, MIME: "image/jpeg", Width: thumbBounds.Dx(), Height: thumbBounds.Dy()},
		nil
}

// CaptureAll collects the screen and every camera for one point. Per-source
// failures are logged and leave nil slots; CaptureAll itself never fails.
func (c *Capturer) CaptureAll(ctx context.Context, point stimulus.Point, surf *surface.Surface, sources []camera.Source) Snapshot {
	snap := Snapshot{
		Point:     point,
		Timestamp: time.Now().UTC(),
	}
	if surf != nil {
		snap.SurfaceWidth, snap.SurfaceHeight = surf.Size()
	}

	snap.Screen = c.CaptureScreen(surf)
	if snap.Screen == nil {
		c.logger.Warn("screen capture unavailable",
			logging.String(logging.FieldEventType, "screen_capture_missing"),
		)
	}

	for _, src := range sources {
		w, h := src.Resolution()
		slot := CameraSlot{Info: CameraInfo{
			DeviceID: src.ID(),
			Role:     src.Role(),
			Width:    w,
			Height:   h,
		}}

		image, preview, err := c.CaptureCamera(ctx, src)
		if err != nil {
			c.logger.Warn("camera capture failed",
				logging.Error(err),
				logging.String("device", src.ID()),
				logging.String(logging.FieldCameraRole, string(src.Role())),
				logging.String(logging.FieldImpact, "capture group will be partial"),
			)
		} else {
			slot.Image = image
			slot.Preview = preview
		}
		snap.Cameras = append(snap.Cameras, slot)
	}

	return snap
}
