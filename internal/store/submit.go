package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gazecap/internal/persist"
	"gazecap/internal/stimulus"
	"gazecap/internal/textutil"
)

// SubmitArtifact implements persist.Storage. The first artifact of a group
// assigns the group's sequence number (previous maximum plus one) inside the
// same transaction that creates the group row, so concurrent submissions can
// never share a number. Resubmitting an already-stored artifact returns the
// original receipt without writing anything.
func (s *Store) SubmitArtifact(ctx context.Context, artifact persist.Artifact) (persist.Receipt, error) {
	ctx = ensureContext(ctx)
	if artifact.GroupID == "" {
		return persist.Receipt{}, errors.New("artifact group id required")
	}
	if artifact.Kind == "" {
		return persist.Receipt{}, errors.New("artifact kind required")
	}

	var receipt persist.Receipt
	err := retryOnBusy(ctx, func() error {
		r, err := s.submitArtifactOnce(ctx, artifact)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	return receipt, err
}

func (s *Store) submitArtifactOnce(ctx context.Context, artifact persist.Artifact) (persist.Receipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persist.Receipt{}, fmt.Errorf("begin submit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := groupSequence(ctx, tx, artifact.GroupID)
	if err != nil {
		return persist.Receipt{}, err
	}

	// Idempotent resubmission: the stored artifact wins.
	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT filename FROM artifacts WHERE group_id = ? AND kind = ?",
		artifact.GroupID, string(artifact.Kind),
	).Scan(&existing)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return persist.Receipt{}, fmt.Errorf("commit submit tx: %w", err)
		}
		return persist.Receipt{SequenceNumber: seq}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return persist.Receipt{}, fmt.Errorf("check existing artifact: %w", err)
	}

	filename := artifactFilename(seq, artifact)
	var previewName string
	if len(artifact.Preview) > 0 {
		previewName = previewFilename(filename)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO artifacts (group_id, kind, filename, preview_filename, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		artifact.GroupID, string(artifact.Kind), filename, nullable(previewName), len(artifact.Payload), now,
	); err != nil {
		return persist.Receipt{}, fmt.Errorf("insert artifact: %w", err)
	}

	if err := s.writePayload(filename, artifact.Payload); err != nil {
		return persist.Receipt{}, err
	}
	if previewName != "" {
		if err := s.writePayload(previewName, artifact.Preview); err != nil {
			return persist.Receipt{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return persist.Receipt{}, fmt.Errorf("commit submit tx: %w", err)
	}
	return persist.Receipt{SequenceNumber: seq}, nil
}

// groupSequence returns the group's sequence number, creating the group row
// with the next free number when it does not exist yet.
func groupSequence(ctx context.Context, tx *sql.Tx, groupID string) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		"SELECT sequence_number FROM capture_groups WHERE id = ?", groupID,
	).Scan(&seq)
	if err == nil {
		return seq, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read group sequence: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM capture_groups",
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate sequence: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO capture_groups (id, sequence_number, status, created_at) VALUES (?, ?, 'pending', ?)",
		groupID, seq, now,
	); err != nil {
		return 0, fmt.Errorf("create group: %w", err)
	}
	return seq, nil
}

// RecordGroupStatus persists a group's point metadata and terminal status.
// Called by the persistence coordinator after it settles a group.
func (s *Store) RecordGroupStatus(ctx context.Context, groupID string, status persist.Status, point stimulus.Point) error {
	_, err := s.execWithRetry(ctx,
		"UPDATE capture_groups SET status = ?, point_x = ?, point_y = ?, point_label = ? WHERE id = ?",
		string(status), point.X, point.Y, point.Label, groupID,
	)
	if err != nil {
		return fmt.Errorf("record group status: %w", err)
	}
	return nil
}

func (s *Store) writePayload(filename string, payload []byte) error {
	path := filepath.Join(s.captureDir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write artifact payload: %w", err)
	}
	return nil
}

// artifactFilename builds the sequence-numbered file name, e.g.
// "00042_screen.png".
func artifactFilename(seq int64, artifact persist.Artifact) string {
	hint := textutil.SanitizeFileName(artifact.FilenameHint)
	if hint == "" {
		hint = string(artifact.Kind) + ".bin"
	}
	return fmt.Sprintf("%05d_%s", seq, hint)
}

func previewFilename(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_preview.jpg"
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
