package camera

import (
	"context"

	"gazecap/internal/services"
)

// Prober opens a trial stream at a high ideal resolution and reports the
// settings the device actually negotiated. Implementations must close the
// probe stream before returning; Negotiate never leaves one open.
type Prober interface {
	Probe(ctx context.Context, devicePath string) (width, height int, err error)
}

// Negotiate picks the capture resolution for a device: the maximum reported
// capability, clamped to a floor of 640x480. When the device reports no
// capabilities the prober supplies the fallback by opening a stream and
// reading back its negotiated settings.
func Negotiate(ctx context.Context, dev Device, prober Prober) (int, int, error) {
	if dev.MaxWidth > 0 && dev.MaxHeight > 0 {
		return floorResolution(dev.MaxWidth, dev.MaxHeight)
	}

	if prober == nil {
		return 0, 0, services.Wrap(services.ErrResourceUnavailable, "camera", "negotiate",
			"no capability data and no prober for "+dev.Path, nil)
	}

	w, h, err := prober.Probe(ctx, dev.Path)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrResourceUnavailable, "camera", "probe", dev.Path, err)
	}
	return floorResolution(w, h)
}

func floorResolution(w, h int) (int, int, error) {
	if w < MinWidth {
		w = MinWidth
	}
	if h < MinHeight {
		h = MinHeight
	}
	return w, h, nil
}
