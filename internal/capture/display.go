package capture

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// captureDisplay grabs the configured physical display instead of reading
// back the stimulus surface. Selected with screen.source = "display".
func (c *Capturer) captureDisplay() (*Image, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	index := c.displayIndex
	if index < 0 || index >= n {
		return nil, fmt.Errorf("display index %d out of range (%d active)", index, n)
	}

	bounds := screenshot.GetDisplayBounds(index)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", index, err)
	}

	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data, MIME: "image/png", Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
