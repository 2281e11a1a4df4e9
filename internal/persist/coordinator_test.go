package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gazecap/internal/camera"
	"gazecap/internal/capture"
	"gazecap/internal/services"
	"gazecap/internal/stimulus"
)

type fakeStorage struct {
	next      int64
	assigned  map[string]int64
	artifacts []Artifact
	failKinds map[Kind]error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{assigned: map[string]int64{}, failKinds: map[Kind]error{}}
}

func (s *fakeStorage) SubmitArtifact(_ context.Context, artifact Artifact) (Receipt, error) {
	if err := s.failKinds[artifact.Kind]; err != nil {
		return Receipt{}, err
	}
	seq, ok := s.assigned[artifact.GroupID]
	if !ok {
		s.next++
		seq = s.next
		s.assigned[artifact.GroupID] = seq
	}
	s.artifacts = append(s.artifacts, artifact)
	return Receipt{SequenceNumber: seq}, nil
}

func testSnapshot(withSecondary bool) capture.Snapshot {
	snap := capture.Snapshot{
		Point:          stimulus.Point{X: 120, Y: 96, Label: "outer-top-left"},
		Timestamp:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Screen:         &capture.Image{Data: []byte("png"), MIME: "image/png", Width: 1000, Height: 800},
		SurfaceWidth:   1000,
		SurfaceHeight:  800,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Cameras: []capture.CameraSlot{
			{
				Info:    capture.CameraInfo{DeviceID: "video0", Role: camera.RoleMain, Width: 1280, Height: 720},
				Image:   &capture.Image{Data: []byte("jpg-main"), MIME: "image/jpeg"},
				Preview: &capture.Image{Data: []byte("thumb"), MIME: "image/jpeg"},
			},
		},
	}
	if withSecondary {
		snap.Cameras = append(snap.Cameras, capture.CameraSlot{
			Info:  capture.CameraInfo{DeviceID: "video2", Role: camera.RoleSecondary, Width: 640, Height: 480},
			Image: &capture.Image{Data: []byte("jpg-secondary"), MIME: "image/jpeg"},
		})
	}
	return snap
}

func TestBeginGroupIDsAreUnique(t *testing.T) {
	c := NewCoordinator(newFakeStorage(), nil)
	snap := testSnapshot(false)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		g := c.BeginGroup(snap)
		if g.Status != StatusPending {
			t.Fatalf("new group should be pending, got %s", g.Status)
		}
		if seen[g.ID] {
			t.Fatalf("duplicate group id %s", g.ID)
		}
		seen[g.ID] = true
	}
}

func TestSubmitCompleteGroup(t *testing.T) {
	storage := newFakeStorage()
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(true)
	group := c.BeginGroup(snap)

	if err := c.Submit(context.Background(), group, snap); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if group.Status != StatusComplete {
		t.Fatalf("expected complete, got %s", group.Status)
	}
	if group.SequenceNumber == nil || *group.SequenceNumber != 1 {
		t.Fatalf("expected sequence 1, got %v", group.SequenceNumber)
	}
	if len(storage.artifacts) != 4 {
		t.Fatalf("expected 4 artifacts, got %d", len(storage.artifacts))
	}

	// Parameters must go first, and every artifact carries the group id.
	if storage.artifacts[0].Kind != KindParameters {
		t.Fatalf("expected parameters first, got %s", storage.artifacts[0].Kind)
	}
	for _, a := range storage.artifacts {
		if a.GroupID != group.ID {
			t.Fatalf("artifact %s has group %s, want %s", a.Kind, a.GroupID, group.ID)
		}
	}
}

func TestSubmitParametersRecord(t *testing.T) {
	storage := newFakeStorage()
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(false)
	group := c.BeginGroup(snap)

	if err := c.Submit(context.Background(), group, snap); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	var record struct {
		GroupID   string `json:"group_id"`
		Timestamp string `json:"timestamp"`
		Point     struct {
			X     int    `json:"x"`
			Y     int    `json:"y"`
			Label string `json:"label"`
		} `json:"point"`
		Surface  struct{ Width, Height int } `json:"surface"`
		Viewport struct{ Width, Height int } `json:"viewport"`
		Cameras  []struct {
			DeviceID string `json:"device_id"`
			Role     string `json:"role"`
			Width    int    `json:"width"`
			Captured bool   `json:"captured"`
		} `json:"cameras"`
	}
	if err := json.Unmarshal(storage.artifacts[0].Payload, &record); err != nil {
		t.Fatalf("decode parameters: %v", err)
	}

	if record.GroupID != group.ID {
		t.Fatalf("parameters group id %s, want %s", record.GroupID, group.ID)
	}
	if record.Point.X != 120 || record.Point.Y != 96 || record.Point.Label != "outer-top-left" {
		t.Fatalf("unexpected point in parameters: %+v", record.Point)
	}
	if record.Surface.Width != 1000 || record.Viewport.Width != 1920 {
		t.Fatalf("unexpected dims: surface %+v viewport %+v", record.Surface, record.Viewport)
	}
	if len(record.Cameras) != 1 || record.Cameras[0].DeviceID != "video0" || !record.Cameras[0].Captured {
		t.Fatalf("unexpected cameras in parameters: %+v", record.Cameras)
	}
	if _, err := time.Parse(time.RFC3339Nano, record.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestSubmitMissingCameraSlotIsPartial(t *testing.T) {
	storage := newFakeStorage()
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(false)
	snap.Cameras = append(snap.Cameras, capture.CameraSlot{
		Info: capture.CameraInfo{DeviceID: "video2", Role: camera.RoleSecondary, Width: 640, Height: 480},
	})
	group := c.BeginGroup(snap)

	if err := c.Submit(context.Background(), group, snap); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if group.Status != StatusPartial {
		t.Fatalf("expected partial, got %s", group.Status)
	}
}

func TestSubmitParametersFailureFailsGroup(t *testing.T) {
	storage := newFakeStorage()
	storage.failKinds[KindParameters] = errors.New("disk full")
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(false)
	group := c.BeginGroup(snap)

	err := c.Submit(context.Background(), group, snap)
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if group.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", group.Status)
	}
	if len(storage.artifacts) != 0 {
		t.Fatal("no image should be submitted after a parameters failure")
	}
}

func TestSubmitImageFailureIsPartialWithoutError(t *testing.T) {
	storage := newFakeStorage()
	storage.failKinds[KindWebcamMain] = errors.New("disk full")
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(false)
	group := c.BeginGroup(snap)

	if err := c.Submit(context.Background(), group, snap); err != nil {
		t.Fatalf("image failure should not return error, got %v", err)
	}
	if group.Status != StatusPartial {
		t.Fatalf("expected partial, got %s", group.Status)
	}
}

func TestSubmitAllImagesFailedFailsGroup(t *testing.T) {
	storage := newFakeStorage()
	storage.failKinds[KindScreen] = errors.New("disk full")
	storage.failKinds[KindWebcamMain] = errors.New("disk full")
	c := NewCoordinator(storage, nil)
	snap := testSnapshot(false)
	group := c.BeginGroup(snap)

	if err := c.Submit(context.Background(), group, snap); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if group.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", group.Status)
	}
}

func TestSubmitTerminalGroupRejected(t *testing.T) {
	c := NewCoordinator(newFakeStorage(), nil)
	snap := testSnapshot(false)
	group := c.BeginGroup(snap)
	group.Status = StatusComplete

	if err := c.Submit(context.Background(), group, snap); !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence error for settled group, got %v", err)
	}
}

func TestSequenceReconciliationAcrossGroups(t *testing.T) {
	storage := newFakeStorage()
	storage.next = 41 // simulate prior session history
	c := NewCoordinator(storage, nil)

	for i := 0; i < 3; i++ {
		snap := testSnapshot(false)
		group := c.BeginGroup(snap)
		if err := c.Submit(context.Background(), group, snap); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		want := int64(42 + i)
		if group.SequenceNumber == nil || *group.SequenceNumber != want {
			t.Fatalf("group %d: expected sequence %d, got %v", i, want, group.SequenceNumber)
		}
		if c.LastSequence() != want {
			t.Fatalf("group %d: counter %d, want %d", i, c.LastSequence(), want)
		}
	}
}
