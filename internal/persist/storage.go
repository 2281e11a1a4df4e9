package persist

import (
	"context"

	"gazecap/internal/stimulus"
)

// Kind tags the artifact flavors a capture group carries.
type Kind string

const (
	KindScreen          Kind = "screen"
	KindWebcamMain      Kind = "webcam_main"
	KindWebcamSecondary Kind = "webcam_secondary"
	KindParameters      Kind = "parameters"
)

// Artifact is one payload handed to the storage collaborator. Preview, when
// set, is a low-resolution companion image stored alongside the payload.
type Artifact struct {
	GroupID      string
	Kind         Kind
	Payload      []byte
	Preview      []byte
	FilenameHint string
}

// Receipt acknowledges a submission. Every artifact of a group receives the
// same sequence number.
type Receipt struct {
	SequenceNumber int64
}

// Storage persists artifacts. Submissions must be idempotent-safe: retrying
// an artifact never assigns a second sequence number to its group.
type Storage interface {
	SubmitArtifact(ctx context.Context, artifact Artifact) (Receipt, error)
}

// StatusRecorder is implemented by storage backends that keep group metadata.
// The coordinator reports each group's point and terminal status through it.
type StatusRecorder interface {
	RecordGroupStatus(ctx context.Context, groupID string, status Status, point stimulus.Point) error
}
