package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"gazecap/internal/camera"
	"gazecap/internal/config"
	"gazecap/internal/logging"
	"gazecap/internal/notifications"
	"gazecap/internal/sequencer"
	"gazecap/internal/settings"
	"gazecap/internal/store"
)

// Daemon coordinates the capture engine, camera monitoring, and the store,
// and enforces single-instance execution through a file lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	engine   *Engine
	notifier notifications.Service
	monitor  *camera.Monitor
	enum     camera.Enumerator
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Session      EngineStatus
	StoreDBPath  string
	LockFilePath string
	PID          int
}

// New constructs a daemon with initialized dependencies. engine may be nil,
// in which case the default engine is built from the config.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, engine *Engine) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	notifier := notifications.NewService(cfg)
	if engine == nil {
		provider := settings.NewProvider(cfg, st, "", logger)
		engine = NewEngine(cfg, st, provider, notifier,
			newDisplayHost(cfg, logger), newSourceBinder(cfg, logger), logger)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		engine:   engine,
		notifier: notifier,
		enum:     camera.NewEnumerator(logger),
		logPath:  filepath.Join(cfg.Paths.LogDir, "gazecap.log"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.monitor = camera.NewMonitor(logger, d.handleHotplug)
	return d, nil
}

// Start acquires the daemon lock and begins camera hotplug monitoring.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another gazecap daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.monitor.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start camera monitor: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("gazecap daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop cancels any running session, stops monitoring, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.engine.Cancel()
	d.engine.Wait()
	d.monitor.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("gazecap daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

func (d *Daemon) handleHotplug(ctx context.Context, event camera.HotplugEvent) {
	if event.Attached {
		_ = d.notifier.NotifyCameraAttached(ctx, event.DevicePath)
	} else {
		_ = d.notifier.NotifyCameraDetached(ctx, event.DevicePath)
	}
}

// StartSession launches a capture session in the given mode.
func (d *Daemon) StartSession(ctx context.Context, mode sequencer.Mode) (string, error) {
	return d.engine.StartSession(ctx, mode)
}

// CancelSession cancels the running session if any.
func (d *Daemon) CancelSession() bool {
	return d.engine.Cancel()
}

// ListCameras enumerates the currently attached video input devices.
func (d *Daemon) ListCameras(ctx context.Context) ([]camera.Device, error) {
	return d.enum.List(ctx)
}

// ListGroups returns stored capture groups.
func (d *Daemon) ListGroups(ctx context.Context, limit int) ([]store.GroupRecord, error) {
	return d.store.ListGroups(ctx, limit)
}

// GroupArtifacts returns the artifacts of a stored group.
func (d *Daemon) GroupArtifacts(ctx context.Context, groupID string) ([]store.ArtifactRecord, error) {
	return d.store.GroupArtifacts(ctx, groupID)
}

// GetSetting resolves one per-user setting override.
func (d *Daemon) GetSetting(ctx context.Context, user, key string) (string, bool, error) {
	if user == "" {
		user = settings.DefaultUser
	}
	return d.store.GetSetting(ctx, user, key)
}

// SetSetting validates and stores a per-user override.
func (d *Daemon) SetSetting(ctx context.Context, user, key, value string) error {
	if user == "" {
		user = settings.DefaultUser
	}
	if err := settings.Validate(key, value); err != nil {
		return err
	}
	return d.store.SetSetting(ctx, user, key, value)
}

// ListSettings returns every override stored for a user.
func (d *Daemon) ListSettings(ctx context.Context, user string) (map[string]string, error) {
	if user == "" {
		user = settings.DefaultUser
	}
	return d.store.ListSettings(ctx, user)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		Session:      d.engine.Status(),
		StoreDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		PID:          os.Getpid(),
	}
}
