package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"gazecap/internal/camera"
)

const jpegQuality = 90

// frameToMirroredRGBA converts a packed RGB camera frame into an RGBA image
// flipped horizontally. Webcams present a mirror view; flipping restores true
// orientation in the saved artifact.
func frameToMirroredRGBA(frame *camera.Frame) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("nil frame")
	}
	want := frame.Width * frame.Height * 3
	if frame.Width <= 0 || frame.Height <= 0 || len(frame.Data) < want {
		return nil, fmt.Errorf("frame %dx%d has %d bytes, want %d", frame.Width, frame.Height, len(frame.Data), want)
	}

	out := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		row := y * frame.Width * 3
		for x := 0; x < frame.Width; x++ {
			src := row + x*3
			dst := out.PixOffset(frame.Width-1-x, y)
			out.Pix[dst] = frame.Data[src]
			out.Pix[dst+1] = frame.Data[src+1]
			out.Pix[dst+2] = frame.Data[src+2]
			out.Pix[dst+3] = 0xff
		}
	}
	return out, nil
}

// scaleToWidth produces a nearest-neighbor thumbnail at most maxWidth wide,
// preserving aspect. Images already narrow enough are returned unchanged.
func scaleToWidth(src *image.RGBA, maxWidth int) *image.RGBA {
	bounds := src.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return src
	}

	width := maxWidth
	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/height
		for x := 0; x < width; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/width
			out.Set(x, y, src.At(srcX, srcY))
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
