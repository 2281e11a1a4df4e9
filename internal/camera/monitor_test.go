package camera

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestMonitorRunning(t *testing.T) {
	t.Run("nil monitor returns false", func(t *testing.T) {
		var m *Monitor
		if m.Running() {
			t.Error("expected Running() to return false for nil monitor")
		}
	})

	t.Run("unstarted monitor returns false", func(t *testing.T) {
		m := NewMonitor(nil, nil)
		if m.Running() {
			t.Error("expected Running() to return false for unstarted monitor")
		}
	})
}

func TestMonitorStopStartIdempotency(t *testing.T) {
	t.Run("stop on nil monitor is safe", func(t *testing.T) {
		var m *Monitor
		m.Stop() // must not panic
	})

	t.Run("start on nil monitor is safe", func(t *testing.T) {
		var m *Monitor
		if err := m.Start(context.Background()); err != nil {
			t.Fatalf("Start on nil monitor should return nil, got: %v", err)
		}
	})

	t.Run("double stop is safe", func(t *testing.T) {
		m := NewMonitor(nil, nil)
		m.Stop()
		m.Stop()
		if m.Running() {
			t.Error("expected Running() to return false after Stop")
		}
	})
}

func TestMonitorBuildMatcher(t *testing.T) {
	m := NewMonitor(nil, nil)

	matcher := m.buildMatcher()
	if matcher == nil {
		t.Fatal("expected non-nil matcher")
	}

	addEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
			"DEVNAME":   "video2",
		},
	}
	if !matcher.Evaluate(addEvent) {
		t.Error("expected matcher to accept video4linux add event")
	}

	removeEvent := netlink.UEvent{
		Action: netlink.REMOVE,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
			"DEVNAME":   "video2",
		},
	}
	if !matcher.Evaluate(removeEvent) {
		t.Error("expected matcher to accept video4linux remove event")
	}

	blockEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
		},
	}
	if matcher.Evaluate(blockEvent) {
		t.Error("expected matcher to reject non-video4linux event")
	}
}

func TestMonitorHandleEvent(t *testing.T) {
	t.Run("ignores event without device name", func(t *testing.T) {
		var called bool
		m := NewMonitor(nil, func(ctx context.Context, event HotplugEvent) {
			called = true
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{},
		})
		if called {
			t.Error("handler should not be called for event without device name")
		}
	})

	t.Run("reports attach", func(t *testing.T) {
		var got HotplugEvent
		m := NewMonitor(nil, func(ctx context.Context, event HotplugEvent) {
			got = event
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVNAME": "video2"},
		})
		if got.DevicePath != "/dev/video2" {
			t.Errorf("expected /dev/video2, got %s", got.DevicePath)
		}
		if !got.Attached {
			t.Error("expected attached event")
		}
	})

	t.Run("reports detach", func(t *testing.T) {
		var got HotplugEvent
		m := NewMonitor(nil, func(ctx context.Context, event HotplugEvent) {
			got = event
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.REMOVE,
			Env:    map[string]string{"DEVNAME": "/dev/video2"},
		})
		if got.DevicePath != "/dev/video2" {
			t.Errorf("expected /dev/video2, got %s", got.DevicePath)
		}
		if got.Attached {
			t.Error("expected detach event")
		}
	})

	t.Run("extracts device from DEVPATH when DEVNAME missing", func(t *testing.T) {
		var got HotplugEvent
		m := NewMonitor(nil, func(ctx context.Context, event HotplugEvent) {
			got = event
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVPATH": "/devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.0/video4linux/video2",
			},
		})
		if got.DevicePath != "/dev/video2" {
			t.Errorf("expected /dev/video2 from DEVPATH, got %s", got.DevicePath)
		}
	})
}
