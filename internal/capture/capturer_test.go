package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"gazecap/internal/camera"
	"gazecap/internal/stimulus"
	"gazecap/internal/surface"
)

type fakeSource struct {
	id      string
	role    camera.Role
	width   int
	height  int
	frame   *camera.Frame
	grabErr error
	closed  bool
}

func (s *fakeSource) ID() string                  { return s.id }
func (s *fakeSource) Role() camera.Role           { return s.role }
func (s *fakeSource) Resolution() (int, int)      { return s.width, s.height }
func (s *fakeSource) Close() error                { s.closed = true; return nil }
func (s *fakeSource) Grab(ctx context.Context) (*camera.Frame, error) {
	if s.grabErr != nil {
		return nil, s.grabErr
	}
	return s.frame, nil
}

// solidFrame builds a packed RGB frame with a distinct left column so mirror
// behavior is observable.
func solidFrame(width, height int) *camera.Frame {
	data := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 3
			if x == 0 {
				data[off] = 0xff // red left edge
			} else {
				data[off+2] = 0xff // blue elsewhere
			}
		}
	}
	return &camera.Frame{Width: width, Height: height, Data: data, Timestamp: time.Now()}
}

type testHost struct {
	hostW, hostH int
	viewW, viewH int
}

func (h *testHost) ViewportSize() (int, int) { return h.viewW, h.viewH }
func (h *testHost) HostSize() (int, int)     { return h.hostW, h.hostH }
func (h *testHost) SuppressChrome()          {}
func (h *testHost) RestoreChrome()           {}

func testSurface(t *testing.T, w, h int) *surface.Surface {
	t.Helper()
	mgr := surface.NewManager(&testHost{hostW: w, hostH: h, viewW: w, viewH: h}, nil, nil)
	return mgr.Acquire()
}

func TestFrameToMirroredRGBA(t *testing.T) {
	frame := solidFrame(4, 2)
	img, err := frameToMirroredRGBA(frame)
	if err != nil {
		t.Fatalf("frameToMirroredRGBA returned error: %v", err)
	}

	// The red source column x=0 must land on the right edge after mirroring.
	right := img.PixOffset(3, 0)
	if img.Pix[right] != 0xff || img.Pix[right+2] != 0 {
		t.Fatalf("expected red at mirrored right edge, got RGBA %v", img.Pix[right:right+4])
	}
	left := img.PixOffset(0, 0)
	if img.Pix[left+2] != 0xff {
		t.Fatalf("expected blue at mirrored left edge, got RGBA %v", img.Pix[left:left+4])
	}
}

func TestFrameToMirroredRGBARejectsShortData(t *testing.T) {
	frame := &camera.Frame{Width: 4, Height: 2, Data: make([]byte, 5)}
	if _, err := frameToMirroredRGBA(frame); err == nil {
		t.Fatal("expected error for short frame data")
	}
}

func TestScaleToWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	thumb := scaleToWidth(src, 320)
	if got := thumb.Bounds().Dx(); got != 320 {
		t.Fatalf("expected width 320, got %d", got)
	}
	if got := thumb.Bounds().Dy(); got != 240 {
		t.Fatalf("expected height 240, got %d", got)
	}

	// Narrow images pass through untouched.
	small := image.NewRGBA(image.Rect(0, 0, 100, 80))
	if scaleToWidth(small, 320) != small {
		t.Fatal("expected small image to be returned unchanged")
	}
}

func TestCaptureScreenEncodesSurface(t *testing.T) {
	c := NewCapturer(Options{})
	surf := testSurface(t, 320, 200)

	img := c.CaptureScreen(surf)
	if img == nil {
		t.Fatal("expected screen image")
	}
	if img.MIME != "image/png" {
		t.Fatalf("expected image/png, got %s", img.MIME)
	}

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("decode screen PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 320 || decoded.Bounds().Dy() != 200 {
		t.Fatalf("expected 320x200, got %v", decoded.Bounds())
	}
}

func TestCaptureScreenNilSurface(t *testing.T) {
	c := NewCapturer(Options{})
	if img := c.CaptureScreen(nil); img != nil {
		t.Fatal("expected nil image for missing surface")
	}
}

func TestCaptureCamera(t *testing.T) {
	c := NewCapturer(Options{PreviewWidth: 2})
	src := &fakeSource{id: "video0", role: camera.RoleMain, width: 4, height: 2, frame: solidFrame(4, 2)}

	img, preview, err := c.CaptureCamera(context.Background(), src)
	if err != nil {
		t.Fatalf("CaptureCamera returned error: %v", err)
	}
	if img.MIME != "image/jpeg" || preview.MIME != "image/jpeg" {
		t.Fatalf("expected JPEG outputs, got %s / %s", img.MIME, preview.MIME)
	}
	if img.Width != 4 || img.Height != 2 {
		t.Fatalf("expected full image 4x2, got %dx%d", img.Width, img.Height)
	}
	if preview.Width != 2 || preview.Height != 1 {
		t.Fatalf("expected preview 2x1, got %dx%d", preview.Width, preview.Height)
	}
}

func TestCaptureAllPartialFailure(t *testing.T) {
	c := NewCapturer(Options{PreviewWidth: 2})
	surf := testSurface(t, 320, 200)
	point := stimulus.Point{X: 160, Y: 100, Label: "center"}

	main := &fakeSource{id: "video0", role: camera.RoleMain, width: 4, height: 2, frame: solidFrame(4, 2)}
	secondary := &fakeSource{id: "video2", role: camera.RoleSecondary, width: 4, height: 2, grabErr: errors.New("device busy")}

	snap := c.CaptureAll(context.Background(), point, surf, []camera.Source{main, secondary})

	if snap.Screen == nil {
		t.Fatal("screen capture should survive a camera failure")
	}
	if snap.SurfaceWidth != 320 || snap.SurfaceHeight != 200 {
		t.Fatalf("expected surface dims 320x200, got %dx%d", snap.SurfaceWidth, snap.SurfaceHeight)
	}
	if len(snap.Cameras) != 2 {
		t.Fatalf("expected 2 camera slots, got %d", len(snap.Cameras))
	}
	if snap.Cameras[0].Image == nil || snap.Cameras[0].Preview == nil {
		t.Fatal("main camera slot should be populated")
	}
	if snap.Cameras[1].Image != nil {
		t.Fatal("failed camera slot should be nil")
	}
	if snap.Cameras[1].Info.DeviceID != "video2" || snap.Cameras[1].Info.Role != camera.RoleSecondary {
		t.Fatalf("failed slot should keep its binding info, got %+v", snap.Cameras[1].Info)
	}
	if snap.Point != point {
		t.Fatalf("expected point carried through, got %+v", snap.Point)
	}
}

func TestCaptureAllNoSurface(t *testing.T) {
	c := NewCapturer(Options{PreviewWidth: 2})
	main := &fakeSource{id: "video0", role: camera.RoleMain, width: 4, height: 2, frame: solidFrame(4, 2)}

	snap := c.CaptureAll(context.Background(), stimulus.Point{}, nil, []camera.Source{main})
	if snap.Screen != nil {
		t.Fatal("expected nil screen slot without a surface")
	}
	if snap.Cameras[0].Image == nil {
		t.Fatal("camera capture should survive a missing surface")
	}
}
