package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gazecap/internal/camera"
	"gazecap/internal/capture"
	"gazecap/internal/logging"
	"gazecap/internal/services"
)

// Coordinator turns capture snapshots into artifact groups and drives their
// submission to the storage collaborator. The parameters record goes first
// for every group; the sequence number the storage assigns to it is copied
// back into the coordinator's running counter so filenames stay consecutive
// even when groups resolve out of order.
type Coordinator struct {
	storage Storage
	logger  *slog.Logger

	mu           sync.Mutex
	lastSequence int64
}

// NewCoordinator binds a coordinator to its storage collaborator.
func NewCoordinator(storage Storage, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		storage: storage,
		logger:  logging.NewComponentLogger(logger, "persist"),
	}
}

// BeginGroup opens a pending group for one stimulus point. The id combines a
// UTC timestamp with a random suffix and is unique within the session.
func (c *Coordinator) BeginGroup(snap capture.Snapshot) *Group {
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id := ts.UTC().Format("20060102-150405.000") + "-" + uuid.NewString()[:8]
	return &Group{
		ID:     id,
		Point:  snap.Point,
		Status: StatusPending,
	}
}

// LastSequence returns the highest sequence number reconciled so far.
func (c *Coordinator) LastSequence() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSequence
}

// Submit persists every artifact of the snapshot under the group's id and
// settles the group's terminal status. A parameters failure fails the group
// and is returned; individual image failures degrade the group to partial
// and are only logged. Submit never retries.
func (c *Coordinator) Submit(ctx context.Context, group *Group, snap capture.Snapshot) error {
	if group == nil || group.Terminal() {
		return services.Wrap(services.ErrPersistence, "persist", "submit", "group missing or already settled", nil)
	}

	params, err := encodeParameters(group.ID, snap)
	if err != nil {
		group.Status = StatusFailed
		return services.Wrap(services.ErrPersistence, "persist", "encode parameters", group.ID, err)
	}

	receipt, err := c.storage.SubmitArtifact(ctx, Artifact{
		GroupID:      group.ID,
		Kind:         KindParameters,
		Payload:      params,
		FilenameHint: "parameters.json",
	})
	if err != nil {
		group.Status = StatusFailed
		return services.Wrap(services.ErrPersistence, "persist", "submit parameters", group.ID, err)
	}
	group.Artifacts = append(group.Artifacts, KindParameters)
	c.reconcile(group, receipt)

	missing := snap.Screen == nil
	failures := 0
	persisted := 0

	if snap.Screen != nil {
		if c.submitOne(ctx, group, Artifact{
			GroupID:      group.ID,
			Kind:         KindScreen,
			Payload:      snap.Screen.Data,
			FilenameHint: "screen.png",
		}) {
			persisted++
		} else {
			failures++
		}
	}

	for _, slot := range snap.Cameras {
		if slot.Image == nil {
			missing = true
			continue
		}
		artifact := Artifact{
			GroupID:      group.ID,
			Kind:         kindForRole(slot.Info.Role),
			Payload:      slot.Image.Data,
			FilenameHint: string(kindForRole(slot.Info.Role)) + ".jpg",
		}
		if slot.Preview != nil {
			artifact.Preview = slot.Preview.Data
		}
		if c.submitOne(ctx, group, artifact) {
			persisted++
		} else {
			failures++
		}
	}

	switch {
	case persisted == 0:
		group.Status = StatusFailed
	case failures > 0 || missing:
		group.Status = StatusPartial
	default:
		group.Status = StatusComplete
	}

	if recorder, ok := c.storage.(StatusRecorder); ok {
		if err := recorder.RecordGroupStatus(ctx, group.ID, group.Status, group.Point); err != nil {
			c.logger.Warn("group status not recorded",
				logging.Error(err),
				logging.String(logging.FieldGroupID, group.ID),
			)
		}
	}

	c.logger.Info("capture group settled",
		logging.String(logging.FieldGroupID, group.ID),
		logging.String("status", string(group.Status)),
		logging.Int("artifacts", len(group.Artifacts)),
		logging.Int64("sequence", sequenceOf(group)),
	)
	return nil
}

func (c *Coordinator) submitOne(ctx context.Context, group *Group, artifact Artifact) bool {
	receipt, err := c.storage.SubmitArtifact(ctx, artifact)
	if err != nil {
		c.logger.Warn("artifact submission failed",
			logging.Error(err),
			logging.String(logging.FieldGroupID, group.ID),
			logging.String("kind", string(artifact.Kind)),
			logging.String(logging.FieldImpact, "group degrades to partial"),
		)
		return false
	}
	group.Artifacts = append(group.Artifacts, artifact.Kind)
	c.reconcile(group, receipt)
	return true
}

// reconcile copies the storage-assigned number onto the group and advances
// the running counter. Artifacts of one group must all carry the same number;
// a mismatch indicates a storage bug and is logged loudly.
func (c *Coordinator) reconcile(group *Group, receipt Receipt) {
	if group.SequenceNumber == nil {
		seq := receipt.SequenceNumber
		group.SequenceNumber = &seq
	} else if *group.SequenceNumber != receipt.SequenceNumber {
		c.logger.Error("sequence number diverged within group",
			logging.String(logging.FieldGroupID, group.ID),
			logging.Int64("assigned", *group.SequenceNumber),
			logging.Int64("received", receipt.SequenceNumber),
		)
	}

	c.mu.Lock()
	if receipt.SequenceNumber > c.lastSequence {
		c.lastSequence = receipt.SequenceNumber
	}
	c.mu.Unlock()
}

func kindForRole(role camera.Role) Kind {
	if role == camera.RoleSecondary {
		return KindWebcamSecondary
	}
	return KindWebcamMain
}

func sequenceOf(group *Group) int64 {
	if group.SequenceNumber == nil {
		return 0
	}
	return *group.SequenceNumber
}
