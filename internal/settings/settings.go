// Package settings layers per-user overrides over config defaults for the
// tunable session parameters. The sequencer takes one snapshot at session
// start; later changes apply to the next session.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gazecap/internal/config"
	"gazecap/internal/logging"
)

// Setting keys stored as per-user overrides.
const (
	KeyRepeatCount       = "repeat_count"
	KeyInterPointDelayMs = "inter_point_delay_ms"
)

// DefaultUser is used when no user is configured.
const DefaultUser = "default"

// Keys lists every supported setting key.
func Keys() []string {
	return []string{KeyRepeatCount, KeyInterPointDelayMs}
}

// Validate checks a key/value pair before it is stored.
func Validate(key, value string) error {
	switch key {
	case KeyRepeatCount:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
	case KeyInterPointDelayMs:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Snapshot is the session parameter set resolved at session start.
type Snapshot struct {
	RepeatCount     int
	InterPointDelay time.Duration
}

// Overrides reads stored per-user values. Implemented by store.Store.
type Overrides interface {
	GetSetting(ctx context.Context, user, key string) (string, bool, error)
}

// Provider resolves snapshots from config defaults plus stored overrides.
// A nil or failing override source falls back to the defaults.
type Provider struct {
	cfg       *config.Config
	overrides Overrides
	user      string
	logger    *slog.Logger
}

// NewProvider builds a provider for one user. An empty user resolves to
// DefaultUser; overrides may be nil.
func NewProvider(cfg *config.Config, overrides Overrides, user string, logger *slog.Logger) *Provider {
	if user == "" {
		user = DefaultUser
	}
	return &Provider{
		cfg:       cfg,
		overrides: overrides,
		user:      user,
		logger:    logging.NewComponentLogger(logger, "settings"),
	}
}

// User returns the user the provider resolves overrides for.
func (p *Provider) User() string {
	return p.user
}

// Snapshot resolves the current parameter set. Invalid or unreadable
// overrides are logged and ignored.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{
		RepeatCount:     p.cfg.Session.RepeatCount,
		InterPointDelay: time.Duration(p.cfg.Session.InterPointDelayMs) * time.Millisecond,
	}

	if value, ok := p.lookup(ctx, KeyRepeatCount); ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			snap.RepeatCount = n
		} else {
			p.logger.Warn("ignoring invalid override",
				logging.String("key", KeyRepeatCount),
				logging.String("value", value),
			)
		}
	}

	if value, ok := p.lookup(ctx, KeyInterPointDelayMs); ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			snap.InterPointDelay = time.Duration(n) * time.Millisecond
		} else {
			p.logger.Warn("ignoring invalid override",
				logging.String("key", KeyInterPointDelayMs),
				logging.String("value", value),
			)
		}
	}

	return snap
}

func (p *Provider) lookup(ctx context.Context, key string) (string, bool) {
	if p.overrides == nil {
		return "", false
	}
	value, ok, err := p.overrides.GetSetting(ctx, p.user, key)
	if err != nil {
		p.logger.Warn("override lookup failed; using config default",
			logging.Error(err),
			logging.String("key", key),
		)
		return "", false
	}
	return value, ok
}
