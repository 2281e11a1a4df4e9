package camera

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Minimal V4L2 ioctl surface: enough to identify a capture device and walk
// its supported frame sizes. Request codes follow the kernel's _IOR/_IOWR
// encoding for the videodev2.h structs below.
const (
	vidiocQuerycap       = 0x80685600 // _IOR('V', 0, struct v4l2_capability)
	vidiocEnumFmt        = 0xc0405602 // _IOWR('V', 2, struct v4l2_fmtdesc)
	vidiocEnumFramesizes = 0xc02c564a // _IOWR('V', 74, struct v4l2_frmsizeenum)

	v4l2BufTypeVideoCapture = 1
	v4l2FrmsizeTypeDiscrete = 1

	v4l2CapVideoCapture = 0x00000001
)

type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

type v4l2Fmtdesc struct {
	Index       uint32
	Type        uint32
	Flags       uint32
	Description [32]byte
	Pixelformat uint32
	MbusCode    uint32
	Reserved    [3]uint32
}

type v4l2FrmsizeDiscrete struct {
	Width  uint32
	Height uint32
}

type v4l2Frmsizeenum struct {
	Index       uint32
	PixelFormat uint32
	Type        uint32
	// Union of discrete and stepwise layouts; stepwise is the larger arm
	// (six uint32). Discrete reads come from the first two words.
	Union    [6]uint32
	Reserved [2]uint32
}

// QueryDevice opens the device node non-blocking and fills in card name,
// capture capability, and the maximum discrete frame size across all pixel
// formats. A device that cannot be opened or is not a capture device returns
// an error; missing frame-size information is not an error (MaxWidth and
// MaxHeight stay zero and negotiation probes instead).
func QueryDevice(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return Device{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var caps v4l2Capability
	if err := ioctl(fd, vidiocQuerycap, unsafe.Pointer(&caps)); err != nil {
		return Device{}, fmt.Errorf("query capabilities %s: %w", path, err)
	}

	deviceCaps := caps.DeviceCaps
	if deviceCaps == 0 {
		deviceCaps = caps.Capabilities
	}
	if deviceCaps&v4l2CapVideoCapture == 0 {
		return Device{}, fmt.Errorf("%s is not a video capture device", path)
	}

	dev := Device{
		ID:    deviceID(path),
		Path:  path,
		Label: cString(caps.Card[:]),
	}
	dev.MaxWidth, dev.MaxHeight = maxFrameSize(fd)
	return dev, nil
}

// maxFrameSize walks every pixel format's discrete frame sizes and returns
// the largest width/height seen. Stepwise/continuous devices report their
// maximum in the stepwise arm of the union.
func maxFrameSize(fd int) (int, int) {
	var maxW, maxH int

	for fmtIdx := uint32(0); ; fmtIdx++ {
		desc := v4l2Fmtdesc{Index: fmtIdx, Type: v4l2BufTypeVideoCapture}
		if err := ioctl(fd, vidiocEnumFmt, unsafe.Pointer(&desc)); err != nil {
			break
		}

		for sizeIdx := uint32(0); ; sizeIdx++ {
			frm := v4l2Frmsizeenum{Index: sizeIdx, PixelFormat: desc.Pixelformat}
			if err := ioctl(fd, vidiocEnumFramesizes, unsafe.Pointer(&frm)); err != nil {
				break
			}
			var w, h int
			if frm.Type == v4l2FrmsizeTypeDiscrete {
				w, h = int(frm.Union[0]), int(frm.Union[1])
			} else {
				// Stepwise layout: min_width, max_width, step_width,
				// min_height, max_height, step_height.
				w, h = int(frm.Union[1]), int(frm.Union[4])
			}
			if w > maxW {
				maxW = w
			}
			if h > maxH {
				maxH = h
			}
			if frm.Type != v4l2FrmsizeTypeDiscrete {
				// Non-discrete enumerations return a single entry.
				break
			}
		}
	}

	return maxW, maxH
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func deviceID(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
