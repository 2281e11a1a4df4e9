package camera

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gazecap/internal/logging"
)

// Enumerator lists the video input devices available for binding.
type Enumerator interface {
	List(ctx context.Context) ([]Device, error)
}

// SysfsEnumerator walks /sys/class/video4linux and queries each node's V4L2
// capabilities. Devices that cannot be opened or are not capture devices are
// skipped with a debug log rather than failing the listing.
type SysfsEnumerator struct {
	// SysfsRoot and DevRoot are overridable for tests.
	SysfsRoot string
	DevRoot   string
	Logger    *slog.Logger
}

// NewEnumerator returns a sysfs-backed enumerator with standard roots.
func NewEnumerator(logger *slog.Logger) *SysfsEnumerator {
	return &SysfsEnumerator{
		SysfsRoot: "/sys/class/video4linux",
		DevRoot:   "/dev",
		Logger:    logging.NewComponentLogger(logger, "camera-enum"),
	}
}

// List returns capture-capable devices in stable name order.
func (e *SysfsEnumerator) List(ctx context.Context) ([]Device, error) {
	entries, err := os.ReadDir(e.SysfsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var devices []Device
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "video") {
			continue
		}

		path := filepath.Join(e.DevRoot, name)
		dev, err := QueryDevice(path)
		if err != nil {
			e.logger().Debug("skipping device",
				logging.String("device", path),
				logging.Error(err),
			)
			continue
		}

		if label := e.sysfsName(name); label != "" {
			dev.Label = label
		}
		dev.Label = NormalizeLabel(dev.Label)
		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}

// sysfsName reads the card name exposed under sysfs, which survives even
// when the ioctl path is unavailable.
func (e *SysfsEnumerator) sysfsName(id string) string {
	raw, err := os.ReadFile(filepath.Join(e.SysfsRoot, id, "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (e *SysfsEnumerator) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}
