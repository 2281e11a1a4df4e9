package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"gazecap/internal/config"
)

type fakeOverrides struct {
	values map[string]string
	err    error
}

func (f *fakeOverrides) GetSetting(_ context.Context, user, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	value, ok := f.values[user+"/"+key]
	return value, ok, nil
}

func baseConfig() *config.Config {
	cfg := config.Default()
	cfg.Session.RepeatCount = 3
	cfg.Session.InterPointDelayMs = 2000
	return &cfg
}

func TestSnapshotDefaults(t *testing.T) {
	p := NewProvider(baseConfig(), nil, "", nil)
	if p.User() != DefaultUser {
		t.Fatalf("expected default user, got %s", p.User())
	}

	snap := p.Snapshot(context.Background())
	if snap.RepeatCount != 3 {
		t.Fatalf("expected repeat count 3, got %d", snap.RepeatCount)
	}
	if snap.InterPointDelay != 2*time.Second {
		t.Fatalf("expected 2s delay, got %s", snap.InterPointDelay)
	}
}

func TestSnapshotAppliesOverrides(t *testing.T) {
	overrides := &fakeOverrides{values: map[string]string{
		"alice/" + KeyRepeatCount:       "7",
		"alice/" + KeyInterPointDelayMs: "500",
	}}
	p := NewProvider(baseConfig(), overrides, "alice", nil)

	snap := p.Snapshot(context.Background())
	if snap.RepeatCount != 7 {
		t.Fatalf("expected repeat count 7, got %d", snap.RepeatCount)
	}
	if snap.InterPointDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms delay, got %s", snap.InterPointDelay)
	}
}

func TestSnapshotIgnoresInvalidOverrides(t *testing.T) {
	overrides := &fakeOverrides{values: map[string]string{
		"alice/" + KeyRepeatCount:       "zero",
		"alice/" + KeyInterPointDelayMs: "-5",
	}}
	p := NewProvider(baseConfig(), overrides, "alice", nil)

	snap := p.Snapshot(context.Background())
	if snap.RepeatCount != 3 || snap.InterPointDelay != 2*time.Second {
		t.Fatalf("invalid overrides should fall back to defaults, got %+v", snap)
	}
}

func TestSnapshotSurvivesLookupFailure(t *testing.T) {
	p := NewProvider(baseConfig(), &fakeOverrides{err: errors.New("db closed")}, "alice", nil)

	snap := p.Snapshot(context.Background())
	if snap.RepeatCount != 3 {
		t.Fatalf("expected config default on lookup failure, got %d", snap.RepeatCount)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		key   string
		value string
		ok    bool
	}{
		{KeyRepeatCount, "1", true},
		{KeyRepeatCount, "0", false},
		{KeyRepeatCount, "three", false},
		{KeyInterPointDelayMs, "0", true},
		{KeyInterPointDelayMs, "-1", false},
		{"unknown", "1", false},
	}
	for _, tc := range cases {
		err := Validate(tc.key, tc.value)
		if tc.ok && err != nil {
			t.Errorf("Validate(%s, %s) unexpected error: %v", tc.key, tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Validate(%s, %s) expected error", tc.key, tc.value)
		}
	}
}
