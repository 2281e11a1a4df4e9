package camera

import (
	"testing"
	"unsafe"
)

// The kernel copies _IOC_SIZE(request) bytes into the argument struct on
// every _IOWR/_IOR ioctl. A struct smaller than its request's encoded size
// lets the kernel write past the struct, so the two must agree exactly.
func TestIoctlStructSizesMatchRequestEncoding(t *testing.T) {
	const iocSizeMask = 0x3fff

	cases := []struct {
		name    string
		request uint
		size    uintptr
	}{
		{"querycap", vidiocQuerycap, unsafe.Sizeof(v4l2Capability{})},
		{"enum_fmt", vidiocEnumFmt, unsafe.Sizeof(v4l2Fmtdesc{})},
		{"enum_framesizes", vidiocEnumFramesizes, unsafe.Sizeof(v4l2Frmsizeenum{})},
	}
	for _, tc := range cases {
		encoded := uintptr((tc.request >> 16) & iocSizeMask)
		if tc.size != encoded {
			t.Errorf("%s: struct is %d bytes but request 0x%x encodes %d", tc.name, tc.size, tc.request, encoded)
		}
	}
}

func TestCString(t *testing.T) {
	if got := cString([]byte{'U', 'V', 'C', 0, 'x'}); got != "UVC" {
		t.Fatalf("cString stopped at %q", got)
	}
	if got := cString([]byte{'a', 'b'}); got != "ab" {
		t.Fatalf("cString without terminator = %q", got)
	}
}

func TestDeviceID(t *testing.T) {
	if got := deviceID("/dev/video2"); got != "video2" {
		t.Fatalf("deviceID = %q", got)
	}
	if got := deviceID("video0"); got != "video0" {
		t.Fatalf("deviceID without slash = %q", got)
	}
}
