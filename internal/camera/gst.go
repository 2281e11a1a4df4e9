package camera

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"gazecap/internal/logging"
	"gazecap/internal/services"
)

// GstSourceConfig describes one camera binding.
type GstSourceConfig struct {
	DevicePath string
	Role       Role
	Width      int
	Height     int
	// Persistent keeps the pipeline playing across grabs; otherwise the
	// device is opened for one grab and released.
	Persistent bool
	Logger     *slog.Logger
}

// GstSource captures frames from a V4L2 device through a GStreamer pipeline:
//
//	v4l2src → videoconvert → videoscale → capsfilter(RGB WxH) → appsink
//
// The appsink keeps only the latest buffer so a grab always sees a fresh
// frame.
type GstSource struct {
	devicePath string
	id         string
	role       Role
	width      int
	height     int
	persistent bool
	logger     *slog.Logger

	mu       sync.Mutex
	pipeline *gst.Pipeline
	frames   chan Frame
	closed   bool
}

// NewGstSource validates the config and returns an unstarted source.
// Persistent sources begin streaming on the first Grab.
func NewGstSource(cfg GstSourceConfig) (*GstSource, error) {
	if cfg.DevicePath == "" {
		return nil, services.Wrap(services.ErrResourceUnavailable, "camera", "bind", "device path required", nil)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, services.Wrap(services.ErrPrecondition, "camera", "bind",
			fmt.Sprintf("invalid resolution %dx%d for %s", cfg.Width, cfg.Height, cfg.DevicePath), nil)
	}
	return &GstSource{
		devicePath: cfg.DevicePath,
		id:         deviceID(cfg.DevicePath),
		role:       cfg.Role,
		width:      cfg.Width,
		height:     cfg.Height,
		persistent: cfg.Persistent,
		logger:     logging.NewComponentLogger(cfg.Logger, "camera-source"),
	}, nil
}

func (s *GstSource) ID() string { return s.id }

func (s *GstSource) Role() Role { return s.role }

func (s *GstSource) Resolution() (int, int) { return s.width, s.height }

// Grab returns one frame at the negotiated resolution. Per-capture sources
// start and stop the pipeline inside the call; persistent sources stream
// continuously and return the latest frame.
func (s *GstSource) Grab(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, services.Wrap(services.ErrResourceUnavailable, "camera", "grab", s.devicePath+" is closed", nil)
	}
	if s.pipeline == nil {
		if err := s.startLocked(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	frames := s.frames
	s.mu.Unlock()

	defer func() {
		if !s.persistent {
			s.stop()
		}
	}()

	select {
	case frame := <-frames:
		return &frame, nil
	case <-ctx.Done():
		return nil, services.Wrap(services.ErrResourceUnavailable, "camera", "grab",
			"no frame from "+s.devicePath+" before deadline", ctx.Err())
	}
}

// Close stops the pipeline and releases the device. Idempotent.
func (s *GstSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()
	return nil
}

func (s *GstSource) startLocked() error {
	pipeline, sink, err := buildCapturePipeline(s.devicePath, s.width, s.height)
	if err != nil {
		return services.Wrap(services.ErrResourceUnavailable, "camera", "open", s.devicePath, err)
	}

	frames := make(chan Frame, 1)
	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			frame, ok := pullFrame(sink, s.width, s.height)
			if !ok {
				return gst.FlowOK
			}
			// Keep only the latest frame.
			select {
			case frames <- frame:
			default:
				select {
				case <-frames:
				default:
				}
				select {
				case frames <- frame:
				default:
				}
			}
			return gst.FlowOK
		},
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return services.Wrap(services.ErrResourceUnavailable, "camera", "start", s.devicePath, err)
	}

	s.pipeline = pipeline
	s.frames = frames
	s.logger.Debug("camera pipeline started",
		logging.String("device", s.devicePath),
		logging.String(logging.FieldCameraRole, string(s.role)),
		logging.Bool("persistent", s.persistent),
	)
	return nil
}

func (s *GstSource) stop() {
	s.mu.Lock()
	pipeline := s.pipeline
	s.pipeline = nil
	s.frames = nil
	s.mu.Unlock()

	if pipeline != nil {
		_ = pipeline.SetState(gst.StateNull)
	}
}

// pullFrame copies one sample out of the appsink. GStreamer reuses the
// buffer, so the data is copied before unmapping.
func pullFrame(sink *app.Sink, width, height int) (Frame, bool) {
	sample := sink.PullSample()
	if sample == nil {
		return Frame{}, false
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return Frame{}, false
	}
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return Frame{}, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	buffer.Unmap()

	return Frame{
		Width:     width,
		Height:    height,
		Data:      cp,
		Timestamp: time.Now(),
	}, true
}

func buildCapturePipeline(device string, width, height int) (*gst.Pipeline, *app.Sink, error) {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, nil, fmt.Errorf("create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, nil, fmt.Errorf("create v4l2src: %w", err)
	}
	src.SetProperty("device", device)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, nil, fmt.Errorf("create videoconvert: %w", err)
	}

	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, nil, fmt.Errorf("create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, nil, fmt.Errorf("create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGB,width=%d,height=%d", width, height)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, nil, fmt.Errorf("create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)
	appsink.SetProperty("max-buffers", 1)
	appsink.SetProperty("drop", true)

	pipeline.AddMany(src, converter, scaler, capsfilter, appsink.Element)
	if err := gst.ElementLinkMany(src, converter, scaler, capsfilter, appsink.Element); err != nil {
		return nil, nil, fmt.Errorf("link pipeline elements: %w", err)
	}

	return pipeline, appsink, nil
}

// GstProber opens a trial stream without fixed dimensions and reads back the
// resolution the device settled on. The probe pipeline is always torn down
// before returning.
type GstProber struct {
	Logger *slog.Logger
}

// Probe implements Prober.
func (p *GstProber) Probe(ctx context.Context, devicePath string) (int, int, error) {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return 0, 0, fmt.Errorf("create probe pipeline: %w", err)
	}
	defer func() {
		_ = pipeline.SetState(gst.StateNull)
	}()

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return 0, 0, fmt.Errorf("create v4l2src: %w", err)
	}
	src.SetProperty("device", devicePath)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return 0, 0, fmt.Errorf("create videoconvert: %w", err)
	}

	// Request the ideal resolution as a range ceiling; the device
	// negotiates down to what it supports.
	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return 0, 0, fmt.Errorf("create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGB,width=[1,%d],height=[1,%d]", probeIdealWidth, probeIdealHeight)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return 0, 0, fmt.Errorf("create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)
	appsink.SetProperty("max-buffers", 1)
	appsink.SetProperty("drop", true)

	pipeline.AddMany(src, converter, capsfilter, appsink.Element)
	if err := gst.ElementLinkMany(src, converter, capsfilter, appsink.Element); err != nil {
		return 0, 0, fmt.Errorf("link probe elements: %w", err)
	}

	type result struct {
		width  int
		height int
	}
	results := make(chan result, 1)

	appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			sample := sink.PullSample()
			if sample == nil {
				return gst.FlowOK
			}
			caps := sample.GetCaps()
			if caps == nil {
				return gst.FlowOK
			}
			st := caps.GetStructureAt(0)
			if st == nil {
				return gst.FlowOK
			}
			w, werr := st.GetValue("width")
			h, herr := st.GetValue("height")
			if werr != nil || herr != nil {
				return gst.FlowOK
			}
			wInt, wok := w.(int)
			hInt, hok := h.(int)
			if !wok || !hok {
				return gst.FlowOK
			}
			select {
			case results <- result{width: wInt, height: hInt}:
			default:
			}
			return gst.FlowOK
		},
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return 0, 0, fmt.Errorf("start probe stream: %w", err)
	}

	select {
	case r := <-results:
		return r.width, r.height, nil
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("probe %s: %w", devicePath, ctx.Err())
	}
}
