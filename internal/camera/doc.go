// Package camera binds V4L2 video devices into capture sources.
//
// It enumerates devices from sysfs with capability data read through V4L2
// ioctls, negotiates a capture resolution per device (reported maximum,
// clamped to a 640x480 floor, with a trial-stream probe as fallback), and
// streams RGB frames through GStreamer pipelines. Sources support two
// lifecycles: per-capture, where the device is opened for a single grab and
// released, and persistent, where the pipeline stays live and grabs read the
// latest frame. A udev netlink monitor reports hotplug events so the daemon
// keeps its camera list current.
package camera
