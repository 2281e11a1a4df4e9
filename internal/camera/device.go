package camera

// Role identifies which capture slot a camera fills. At most two sources are
// active at once; the role is fixed for the lifetime of a binding and tags
// every artifact the source produces.
type Role string

const (
	RoleMain      Role = "main"
	RoleSecondary Role = "secondary"
)

// Device describes one video input device as reported by enumeration.
// MaxWidth/MaxHeight are zero when capability introspection was unavailable;
// negotiation then falls back to probing.
type Device struct {
	// ID is the kernel device name (e.g. "video0").
	ID string
	// Path is the device node (e.g. "/dev/video0").
	Path string
	// Label is the human-readable card name.
	Label string
	// MaxWidth and MaxHeight are the largest frame size the device reports.
	MaxWidth  int
	MaxHeight int
}

// Resolution floor applied to every negotiation result.
const (
	MinWidth  = 640
	MinHeight = 480
)

// Ideal probe resolution requested when a device reports no capabilities.
const (
	probeIdealWidth  = 3840
	probeIdealHeight = 2160
)
