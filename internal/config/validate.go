package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateCameras(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.ScreenSource {
	case ScreenSourceSurface, ScreenSourceDisplay:
	default:
		return fmt.Errorf("capture.screen_source must be %q or %q", ScreenSourceSurface, ScreenSourceDisplay)
	}
	if c.Capture.RedrawIntervalMs < 10 {
		return errors.New("capture.redraw_interval_ms must be at least 10")
	}
	return nil
}

func (c *Config) validateCameras() error {
	switch c.Cameras.Lifecycle {
	case LifecyclePerCapture, LifecyclePersistent:
	default:
		return fmt.Errorf("cameras.lifecycle must be %q or %q", LifecyclePerCapture, LifecyclePersistent)
	}
	if c.Cameras.SecondaryDevice != "" && c.Cameras.SecondaryDevice == c.Cameras.MainDevice {
		return errors.New("cameras.secondary_device must differ from cameras.main_device")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
